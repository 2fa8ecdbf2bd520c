package email

import (
	"fmt"
	"strings"
)

// OrderItem represents an order line for email purposes
type OrderItem struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice float64
}

// BuildOrderCreatedBody builds the HTML body announcing a new order to staff
func BuildOrderCreatedBody(orderNumber string, total float64, items []OrderItem) string {
	var itemsHTML strings.Builder
	for _, item := range items {
		name := item.Name
		if name == "" {
			name = item.ProductID
		}
		itemsHTML.WriteString(fmt.Sprintf(
			`<tr>
				<td style="padding: 10px; border-bottom: 1px solid #eee;">%s</td>
				<td style="padding: 10px; border-bottom: 1px solid #eee; text-align: center;">%d</td>
				<td style="padding: 10px; border-bottom: 1px solid #eee; text-align: right;">%s</td>
				<td style="padding: 10px; border-bottom: 1px solid #eee; text-align: right;">%s</td>
			</tr>`,
			name,
			item.Quantity,
			FormatEuro(item.UnitPrice),
			FormatEuro(item.UnitPrice*float64(item.Quantity)),
		))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h1 style="font-size: 20px; border-bottom: 2px solid #2c5f2d; padding-bottom: 10px;">Nouvelle commande enregistrée</h1>

	<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
		<p style="margin: 0; font-size: 14px; color: #666;">Numéro de commande</p>
		<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">%s</p>
	</div>

	<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
		<thead>
			<tr style="background: #f8f9fa;">
				<th style="padding: 10px; text-align: left;">Produit</th>
				<th style="padding: 10px; text-align: center;">Quantité</th>
				<th style="padding: 10px; text-align: right;">Prix unitaire</th>
				<th style="padding: 10px; text-align: right;">Sous-total</th>
			</tr>
		</thead>
		<tbody>
			%s
		</tbody>
	</table>

	<div style="text-align: right; padding: 15px; background: #f8f9fa; border-radius: 5px;">
		<span style="font-size: 14px; color: #666;">Total</span>
		<span style="font-size: 22px; font-weight: bold; color: #2c5f2d; margin-left: 10px;">%s</span>
	</div>

	<p style="font-size: 12px; color: #999; margin-top: 30px;">
		Cet email est envoyé automatiquement par le back-office.
	</p>
</body>
</html>`, orderNumber, itemsHTML.String(), FormatEuro(total))
}

// BuildOrderDeletedBody builds the HTML body announcing a deleted order and
// the stock quantities restored
func BuildOrderDeletedBody(orderNumber string, restored []OrderItem) string {
	var itemsHTML strings.Builder
	for _, item := range restored {
		name := item.Name
		if name == "" {
			name = item.ProductID
		}
		itemsHTML.WriteString(fmt.Sprintf(
			`<li style="padding: 4px 0;">%s — %d unité(s) remise(s) en stock</li>`,
			name, item.Quantity,
		))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h1 style="font-size: 20px; border-bottom: 2px solid #8b2c2c; padding-bottom: 10px;">Commande supprimée</h1>

	<p>La commande <strong style="font-family: monospace;">%s</strong> a été supprimée.</p>

	<h2 style="font-size: 16px;">Stock restauré</h2>
	<ul style="padding-left: 20px;">
		%s
	</ul>

	<p style="font-size: 12px; color: #999; margin-top: 30px;">
		Cet email est envoyé automatiquement par le back-office.
	</p>
</body>
</html>`, orderNumber, itemsHTML.String())
}

// BuildIntakeNoticeBody builds the HTML body announcing a stock intake
func BuildIntakeNoticeBody(productName string, addedQuantity, stockQuantity int, isNew bool) string {
	headline := "Stock réceptionné"
	if isNew {
		headline = "Nouveau produit au catalogue"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h1 style="font-size: 20px; border-bottom: 2px solid #2c5f2d; padding-bottom: 10px;">%s</h1>

	<p><strong>%s</strong> : %d unité(s) ajoutée(s), stock actuel %d.</p>

	<p style="font-size: 12px; color: #999; margin-top: 30px;">
		Cet email est envoyé automatiquement par le back-office.
	</p>
</body>
</html>`, headline, productName, addedQuantity, stockQuantity)
}

// FormatEuro renders an amount the French way: comma decimal separator,
// trailing euro sign.
func FormatEuro(amount float64) string {
	return strings.Replace(fmt.Sprintf("%.2f €", amount), ".", ",", 1)
}
