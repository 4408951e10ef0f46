package notify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/marceloamellopaixao/iadeldorado-sub000/internal/models"
)

// ReceiptLink builds a wa.me deep link with the order receipt prefilled.
// There is no delivery confirmation; the customer opens the link themselves.
func ReceiptLink(number string, order *models.Order) string {
	digits := onlyDigits(number)
	// numbers stored without the country code get the Brazilian prefix
	if len(digits) == 10 || len(digits) == 11 {
		digits = "55" + digits
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Pedido #%d - %s\n", order.ID, order.ClientName)
	for _, it := range order.Items {
		fmt.Fprintf(&b, "%dx %s - R$ %.2f\n", it.Quantity, it.Name, it.Price*float64(it.Quantity))
	}
	fmt.Fprintf(&b, "Total: R$ %.2f\n", order.Total)
	fmt.Fprintf(&b, "Pagamento: %s\n", order.PaymentMethod)
	if order.PaymentMethod == models.PaymentPix && order.PixKeyValue != "" {
		fmt.Fprintf(&b, "Chave PIX (%s): %s - %s\n", order.PixKeyType, order.PixKeyValue, order.PixOwnerName)
	}

	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(b.String())
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
