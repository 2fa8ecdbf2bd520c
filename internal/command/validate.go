package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/resto-backoffice/internal/catalog"
	"github.com/example/resto-backoffice/internal/order"
)

// ValidationErrors maps form field keys to user-facing messages. When it is
// returned, nothing was written: validation always runs before the first
// network call.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, v[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// validateCreateOrder checks the command against a snapshot of the catalog.
// The stock sufficiency check here uses the snapshot and can be stale; the
// stock adjuster's conditional decrement is the authoritative guard.
func validateCreateOrder(cmd CreateOrder, products map[string]catalog.Product) ValidationErrors {
	errs := ValidationErrors{}

	if cmd.OrderNumber == "" {
		errs["order_number"] = "Le numéro de commande est requis"
	}
	if cmd.Status == "" {
		errs["status"] = "Le statut est requis"
	} else if !order.ValidStatus(cmd.Status) {
		errs["status"] = "Statut invalide"
	}
	if cmd.PaymentMethod == "" {
		errs["payment_method"] = "La méthode de paiement est requise"
	} else if !order.ValidPaymentMethod(cmd.PaymentMethod) {
		errs["payment_method"] = "Méthode de paiement invalide"
	}

	hasItemErrors := false
	for i, item := range cmd.Items {
		if item.ProductID == "" {
			errs[fmt.Sprintf("item_%d_product", i)] = "Veuillez sélectionner un produit"
			hasItemErrors = true
			continue
		}

		product, known := products[item.ProductID]
		if !known {
			errs[fmt.Sprintf("item_%d_product", i)] = "Produit inconnu"
			hasItemErrors = true
			continue
		}

		if item.Quantity <= 0 {
			errs[fmt.Sprintf("item_%d_quantity", i)] = "La quantité doit être positive"
			hasItemErrors = true
		} else if product.StockQuantity < item.Quantity {
			errs[fmt.Sprintf("item_%d_stock", i)] = fmt.Sprintf("Stock insuffisant (%d disponible)", product.StockQuantity)
			hasItemErrors = true
		}
	}

	if len(cmd.Items) == 0 || hasItemErrors {
		errs["items"] = "Au moins un article valide est requis"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
