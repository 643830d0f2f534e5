package events

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/event"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/mail"
	"github.com/shashiranjanraj/bazaar/pkg/payment"
)

// BuyerLookup resolves the buyer an order mail is addressed to.
type BuyerLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

var (
	receiptTmpl = template.Must(template.New("receipt").Parse(`<p>Hi {{.Name}},</p>
<p>Thanks for your order <strong>{{.OrderID}}</strong>.</p>
<p>Items: {{.Items}}{{if .Amount}}<br>Total charged: {{.Amount}} {{.Currency}}{{end}}</p>
<p>Status: {{.Status}}</p>`))

	statusTmpl = template.Must(template.New("status").Parse(`<p>Hi {{.Name}},</p>
<p>Your order <strong>{{.OrderID}}</strong> is now <strong>{{.Status}}</strong>.</p>`))
)

type mailView struct {
	Name     string
	OrderID  string
	Items    int
	Amount   string
	Currency string
	Status   models.OrderStatus
}

// RegisterMail sends the buyer a receipt when an order is created and a
// note on every status change. Delivery failures are logged only.
func RegisterMail(bus *event.Bus, users BuyerLookup, mailer mail.Mailer) {
	bus.Listen(OrderCreated, func(ctx context.Context, payload interface{}) {
		if order, ok := payload.(*models.Order); ok {
			sendOrderMail(ctx, users, mailer, order, "Your Bazaar order "+order.ID, receiptTmpl)
		}
	})
	bus.Listen(OrderStatusUpdated, func(ctx context.Context, payload interface{}) {
		if order, ok := payload.(*models.Order); ok {
			sendOrderMail(ctx, users, mailer, order, "Order "+order.ID+" is "+string(order.Status), statusTmpl)
		}
	})
}

func sendOrderMail(ctx context.Context, users BuyerLookup, mailer mail.Mailer, order *models.Order, subject string, tmpl *template.Template) {
	log := logger.WithCtx(ctx).With("order_id", order.ID)

	buyer, err := users.FindByID(ctx, order.BuyerID)
	if err != nil {
		log.Warn("order mail: buyer lookup failed", "buyer_id", order.BuyerID, "error", err)
		return
	}

	view := mailView{Name: buyer.Name, OrderID: order.ID, Items: len(order.ProductIDs), Status: order.Status}
	var res payment.Result
	if len(order.Payment) > 0 && json.Unmarshal(order.Payment, &res) == nil {
		view.Amount = res.Transaction.Amount
		view.Currency = res.Transaction.Currency
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, view); err != nil {
		log.Error("order mail: render", "error", err)
		return
	}

	if err := mailer.Send(ctx, mail.Message{To: []string{buyer.Email}, Subject: subject, HTML: body.String()}); err != nil {
		log.Error("order mail: send", "error", err)
	}
}
