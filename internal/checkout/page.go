package checkout

import "html/template"

var pageTemplate = template.Must(template.New("checkout").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Accept lead: {{.Keyword}}</title>
<script src="https://checkout.razorpay.com/v1/checkout.js"></script>
<style>
body { font-family: system-ui, sans-serif; max-width: 32rem; margin: 4rem auto; padding: 0 1rem; color: #1f2937; }
button { background: #0f766e; color: #fff; border: 0; border-radius: .375rem; padding: .75rem 1.5rem; font-size: 1rem; cursor: pointer; }
#status { margin-top: 1.5rem; }
</style>
</head>
<body>
<h1>{{.Keyword}}</h1>
{{if .Location}}<p>{{.Location}}</p>{{end}}
<p>Pay <strong>{{.Display}}</strong> to accept this lead.</p>
<button id="pay">Pay now</button>
<p id="status"></p>
<script>
const options = {{.Options}};
const base = {{.CallbackBase}};
const statusEl = document.getElementById("status");
function report(kind, body) {
  return fetch(base + "/" + kind, {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify(body),
  }).then(function (r) { return r.json(); })
    .then(function (r) { statusEl.textContent = r.message; })
    .catch(function () { statusEl.textContent = "Could not reach the vendor agent."; });
}
options.handler = function (resp) { report("success", resp); };
options.modal = {ondismiss: function () { report("dismiss", {}); }};
const rzp = new Razorpay(options);
rzp.on("payment.failed", function (resp) {
  report("failure", {description: resp.error && resp.error.description});
});
document.getElementById("pay").onclick = function (e) { e.preventDefault(); rzp.open(); };
rzp.open();
</script>
</body>
</html>
`))

type pageData struct {
	Keyword      string
	Location     string
	Display      string
	Options      map[string]any
	CallbackBase string
}
