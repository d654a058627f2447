package dto

type BusinessDetailsRequest struct {
	NumberOfEmployees   string `json:"numberOfEmployees" validate:"required,oneof=1-10 11-50 51-200 201-500 500+"`
	YearlyTurnover      string `json:"yearlyTurnover" validate:"required,oneof=0-10L 10L-50L 50L-1Cr 1Cr-5Cr 5Cr+"`
	YearOfEstablishment int    `json:"yearOfEstablishment" validate:"required,gte=1800,notfuture"`
}

type VendorCategoriesRequest struct {
	CategoryIDs []int64 `json:"categoryIds" validate:"required,min=1,max=10,dive,gt=0"`
}
