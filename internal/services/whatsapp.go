package services

import (
	"fmt"
	"net/url"
	"strings"

	"quoting-system/internal/models"
)

// BuildWhatsAppLink строит deep link с текстом котировки для склада.
// Сообщение открывается на стороне клиента, сервис ничего не отправляет.
func BuildWhatsAppLink(q *models.Quote, contactNumber string) string {
	lines := []string{
		"*Hola Transporte Rio Lavayen* 👋 Realice una cotizacion online con los siguientes datos:",
		"",
		fmt.Sprintf("🆔- ID Cotización: *%s*", q.ID),
		fmt.Sprintf("📅- Fecha: *%s*", q.CreatedAt.Format(documentTimeFormat)),
		fmt.Sprintf("🏢- Depósito de Origen: *%s*", q.Warehouse),
		fmt.Sprintf("📍- Destino: *%s (Zona %s)*", q.Locality, q.ZoneName),
		fmt.Sprintf("🔎- Distancia Aproximada: *%v km*", q.DistanceKm),
		fmt.Sprintf("📦- Tipo de Carga: *%s*", q.CargoClass),
		fmt.Sprintf("🔢- Cantidad: *%d*", q.Quantity),
		fmt.Sprintf("💰- Valor Declarado: *$%.2f*", q.DeclaredValue),
		fmt.Sprintf("🛡️- Seguro de Carga: *%s*", siNo(q.InsuranceRequested)),
		fmt.Sprintf("🧾- Solicitar Factura: *%s*", siNo(q.TaxIncluded)),
		fmt.Sprintf("💲- Costo Final: *$%.2f*", q.FinalCost),
		"",
		"Espero su pronta respuesta. ¡Muchas Gracias! 👌",
	}

	message := strings.Join(lines, "\n")
	return fmt.Sprintf("https://wa.me/%s?text=%s", contactNumber, url.QueryEscape(message))
}
