package notify

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/google/uuid"

	"github.com/daisyverse/backend/internal/domain"
)

var ownerTmpl = template.Must(template.New("owner").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333; text-align: center;">New Order Received!</h2>
  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px;">
    <h3>Order Details</h3>
    <p><strong>Order ID:</strong> {{.OrderID}}</p>
    <p><strong>Order Date:</strong> {{.OrderDate}}</p>
    <p><strong>Total Amount:</strong> &#8377;{{.GrossTotal}}</p>
  </div>
  <div style="background-color: #e8f5e8; padding: 20px; border-radius: 8px;">
    <h3>Customer Information</h3>
    <p><strong>Name:</strong> {{.Customer.Name}}</p>
    <p><strong>Email:</strong> {{.Customer.Email}}</p>
    <p><strong>Phone:</strong> {{.Customer.Phone}}</p>
    <p><strong>Address:</strong><br>
       {{.Customer.Address}}<br>
       {{.Customer.City}}, {{.Customer.State}} {{.Customer.ZipCode}}
    </p>
  </div>
  <div>
    <h3>Order Items</h3>
    <table style="width: 100%; border-collapse: collapse;">
      <tr style="background-color: #f8f9fa;">
        <th style="text-align: left;">Product</th><th>Quantity</th><th style="text-align: right;">Price</th>
      </tr>
      {{range .Items}}
      <tr>
        <td>{{.Name}}</td>
        <td style="text-align: center;">{{.Quantity}}</td>
        <td style="text-align: right;">&#8377;{{.Subtotal}}</td>
      </tr>
      {{end}}
    </table>
  </div>
  <p style="color: #856404;"><strong>Note:</strong> Please process this order and arrange for delivery.</p>
  <p style="color: #6c757d; font-size: 14px; text-align: center;">This is an automated notification from Daisyverse</p>
</div>`))

var customerTmpl = template.Must(template.New("customer").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #28a745; text-align: center;">Order Confirmed!</h1>
  <p style="color: #6c757d; text-align: center;">Thank you for your purchase</p>
  <div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px;">
    <p><strong>Order ID:</strong> {{.OrderID}}</p>
    <p><strong>Order Date:</strong> {{.OrderDate}}</p>
    <p><strong>Total Amount:</strong> &#8377;{{.GrossTotal}}</p>
  </div>
  <div>
    <h3>Your Items</h3>
    <table style="width: 100%; border-collapse: collapse;">
      {{range .Items}}
      <tr>
        <td>{{.Name}}</td>
        <td style="text-align: center;">{{.Quantity}}</td>
        <td style="text-align: right;">&#8377;{{.Subtotal}}</td>
      </tr>
      {{end}}
    </table>
  </div>
  <p>We'll let you know as soon as your order ships to:</p>
  <p>{{.Customer.Address}}, {{.Customer.City}}, {{.Customer.State}} {{.Customer.ZipCode}}</p>
  <p style="color: #6c757d; font-size: 14px; text-align: center;">Daisyverse</p>
</div>`))

type emailData struct {
	OrderID    string
	OrderDate  string
	GrossTotal string
	Customer   domain.CustomerDetails
	Items      []emailItem
}

type emailItem struct {
	Name     string
	Quantity int
	Subtotal string
}

func buildData(order *domain.Order) emailData {
	items := make([]emailItem, len(order.Items))
	for i, it := range order.Items {
		items[i] = emailItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Subtotal: fmt.Sprintf("%.2f", it.Price*float64(it.Quantity)),
		}
	}
	return emailData{
		OrderID:    order.OrderID,
		OrderDate:  order.OrderDate.Format("02 Jan 2006 15:04"),
		GrossTotal: fmt.Sprintf("%.2f", order.TotalAmount+order.TaxAmount),
		Customer:   order.Customer,
		Items:      items,
	}
}

// OwnerNotification renders the shop-owner copy of a new-order email.
func OwnerNotification(order *domain.Order, ownerEmail string) (Message, error) {
	var buf strings.Builder
	if err := ownerTmpl.Execute(&buf, buildData(order)); err != nil {
		return Message{}, err
	}
	return Message{
		ID:      uuid.New(),
		To:      ownerEmail,
		Subject: fmt.Sprintf("New Order Received - %s", order.OrderID),
		HTML:    buf.String(),
	}, nil
}

// CustomerConfirmation renders the confirmation email sent to the buyer.
func CustomerConfirmation(order *domain.Order) (Message, error) {
	var buf strings.Builder
	if err := customerTmpl.Execute(&buf, buildData(order)); err != nil {
		return Message{}, err
	}
	return Message{
		ID:      uuid.New(),
		To:      order.Customer.Email,
		Subject: fmt.Sprintf("Order Confirmation - %s", order.OrderID),
		HTML:    buf.String(),
	}, nil
}
