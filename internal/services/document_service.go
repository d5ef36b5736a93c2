package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"

	"quoting-system/internal/models"

	qrcode "github.com/skip2/go-qrcode"
)

const documentTimeFormat = "2006-01-02 15:04"

// DocumentService формирует HTML документ котировки с встроенным QR кодом.
type DocumentService struct {
	tmpl *template.Template
}

// NewDocumentService создает сервис рендеринга документов.
func NewDocumentService() (*DocumentService, error) {
	tmpl, err := template.New("quote").Parse(quoteTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse quote template: %w", err)
	}
	return &DocumentService{tmpl: tmpl}, nil
}

// ScannablePayload возвращает текст, кодируемый в QR код документа.
func ScannablePayload(q *models.Quote) string {
	return fmt.Sprintf(
		"ID Cotizacion: %s\nFecha: %s\nMonto: $%.2f\nDestino: %s (Zona %s)\nDeposito: %s\nCantidad: %d\nValor Declarado: $%.2f",
		q.ID, q.CreatedAt.Format(documentTimeFormat), q.FinalCost,
		q.Locality, q.ZoneName, q.Warehouse, q.Quantity, q.DeclaredValue)
}

// Render собирает HTML документ котировки.
func (s *DocumentService) Render(q *models.Quote) ([]byte, error) {
	png, err := qrcode.Encode(ScannablePayload(q), qrcode.Low, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}

	data := struct {
		Quote    *models.Quote
		Date     string
		QRBase64 string
		Tax      string
		Insured  string
	}{
		Quote:    q,
		Date:     q.CreatedAt.Format(documentTimeFormat),
		QRBase64: base64.StdEncoding.EncodeToString(png),
		Tax:      siNo(q.TaxIncluded),
		Insured:  siNo(q.InsuranceRequested),
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render quote document: %w", err)
	}
	return buf.Bytes(), nil
}

func siNo(v bool) string {
	if v {
		return "Si"
	}
	return "No"
}

const quoteTemplate = `<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; }
        .container { max-width: 800px; margin: auto; padding: 20px; border: 1px solid #ccc; border-radius: 10px; background-color: #f9f9f9; }
        .header { text-align: center; margin-bottom: 20px; }
        .header h1 { color: #333; }
        .details { margin-bottom: 20px; }
        .details p { margin: 5px 0; }
        .qr-code { text-align: center; margin-top: 20px; }
        .qr-code img { width: 150px; height: 150px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Cotizacion Automatizada</h1>
            <h2>Transporte Rio Lavayen</h2>
        </div>
        <div class="details">
            <p><strong>Fecha:</strong> {{.Date}}</p>
            <p><strong>Deposito de Origen:</strong> {{.Quote.Warehouse}}</p>
            <p><strong>Destino:</strong> {{.Quote.Locality}} (Zona {{.Quote.ZoneName}})</p>
            <p><strong>Distancia Aproximada:</strong> {{.Quote.DistanceKm}} km</p>
            <p><strong>Tipo de Carga:</strong> {{.Quote.CargoClass}}</p>
            <p><strong>Cantidad:</strong> {{.Quote.Quantity}}</p>
            <p><strong>Valor Declarado:</strong> ${{printf "%.2f" .Quote.DeclaredValue}}</p>
            <p><strong>Incluir IVA:</strong> {{.Tax}}</p>
            <p><strong>Solicitar Seguro de Carga:</strong> {{.Insured}}</p>
            <p><strong>Cotizacion Estimada:</strong> ${{printf "%.2f" .Quote.FinalCost}}</p>
        </div>
        <div class="qr-code">
            <img src="data:image/png;base64,{{.QRBase64}}" alt="QR Code">
            <p><strong>ID Cotizacion:</strong> {{.Quote.ID}}</p>
        </div>
    </div>
</body>
</html>
`
