package service

import (
	"bytes"
	"html/template"

	"github.com/shopspring/decimal"

	"memorial/internal/domain"
)

var templates = template.Must(template.New("mail").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return "R " + d.StringFixed(2) },
}).Parse(`
{{define "buyer_receipt"}}
<h2>Thank you for your order, {{.Order.Customer.FirstName}}</h2>
<p>Your payment to {{.Order.Retailer.Name}} through {{.SiteName}} was received.</p>
<p>Order reference: <strong>{{.Order.ID}}</strong><br>Payment reference: {{.Order.GatewayPaymentID}}</p>
{{template "items" .}}
<p><strong>Total paid: {{money .Order.CartTotal}}</strong></p>
<p>{{.Order.Retailer.Name}} will contact you at {{.Order.Customer.Email}} to arrange the next steps.</p>
{{end}}

{{define "retailer_order"}}
<h2>New paid order {{.Order.ID}}</h2>
<p>Payment reference: {{.Order.GatewayPaymentID}}</p>
<h3>Customer</h3>
<p>
{{.Order.Customer.FirstName}} {{.Order.Customer.LastName}}<br>
{{.Order.Customer.Email}}<br>
{{.Order.Customer.Phone}}<br>
{{.Order.Customer.AddressLine1}}<br>
{{if .Order.Customer.AddressLine2}}{{.Order.Customer.AddressLine2}}<br>{{end}}
{{.Order.Customer.City}} {{.Order.Customer.Province}} {{.Order.Customer.PostalCode}}
</p>
{{template "items" .}}
<table>
<tr><td>Cart total</td><td>{{money .Order.CartTotal}}</td></tr>
<tr><td>{{.SiteName}} commission</td><td>{{money .Order.Commission}}</td></tr>
<tr><td><strong>Your payout</strong></td><td><strong>{{money .Order.RetailerPayout}}</strong></td></tr>
</table>
{{end}}

{{define "items"}}
<table>
<tr><th>Product</th><th>Option</th><th>Price</th></tr>
{{range .Order.Items}}<tr><td>{{.ProductType}}</td><td>{{.Variant}}</td><td>{{money .UnitPrice}}</td></tr>
{{end}}</table>
{{end}}

{{define "subscription_activated"}}
<h2>Your premium listing is active</h2>
<p>Hi {{.Subscription.Retailer.Name}}, your {{.SiteName}} premium subscription ({{.Subscription.ID}}) is now active.</p>
<p>Recurring amount: {{money .Subscription.Amount}}, first billed {{.Subscription.BillingDate.Format "02 Jan 2006"}}.</p>
{{end}}
`))

const (
	buyerReceiptTemplate          = "buyer_receipt"
	retailerOrderTemplate         = "retailer_order"
	subscriptionActivatedTemplate = "subscription_activated"
)

type orderView struct {
	SiteName string
	Order    *domain.Order
}

func newOrderView(order *domain.Order, siteName string) orderView {
	return orderView{SiteName: siteName, Order: order}
}

type subscriptionView struct {
	SiteName     string
	Subscription *domain.Subscription
}

func newSubscriptionView(sub *domain.Subscription, siteName string) subscriptionView {
	return subscriptionView{SiteName: siteName, Subscription: sub}
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
