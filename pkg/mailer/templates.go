package mailer

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	TemplateShipmentReceived  = "shipment_received"
	TemplateShipmentShipped   = "shipment_shipped"
	TemplateShipmentDelivered = "shipment_delivered"
	TemplateGeneral           = "general"
)

var headings = map[string]string{
	TemplateShipmentReceived:  "Package Received Confirmation",
	TemplateShipmentShipped:   "Package Shipped",
	TemplateShipmentDelivered: "Package Delivered",
}

type Company struct {
	Name    string
	Address string
	Phone   string
	Website string
}

var DefaultCompany = Company{
	Name:    "Chrisdan Enterprises LLC",
	Address: "142-49 Rockaway Blvd, Jamaica, NY 11436",
	Phone:   "(718) 656-5400",
	Website: "www.chrisdanenterprises.com",
}

type templateView struct {
	Company Company
	Heading string
	Data    map[string]string
}

// Renderer turns a template type and its data into the HTML and text bodies
// of an email. Unknown types fall back to the general template and missing
// data keys render as empty strings.
type Renderer struct {
	company Company
	html    map[string]*htmltemplate.Template
	text    map[string]*texttemplate.Template
}

func NewRenderer(company Company) (*Renderer, error) {
	r := &Renderer{
		company: company,
		html:    make(map[string]*htmltemplate.Template),
		text:    make(map[string]*texttemplate.Template),
	}
	for _, name := range []string{TemplateShipmentReceived, TemplateShipmentShipped, TemplateShipmentDelivered, TemplateGeneral} {
		h, err := htmltemplate.New(name).Option("missingkey=zero").ParseFS(templateFS, "templates/layout.html.tmpl", "templates/"+name+".html.tmpl")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s html template: %w", name, err)
		}
		t, err := texttemplate.New(name).Option("missingkey=zero").ParseFS(templateFS, "templates/signature.txt.tmpl", "templates/"+name+".txt.tmpl")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s text template: %w", name, err)
		}
		r.html[name] = h
		r.text[name] = t
	}
	return r, nil
}

func (r *Renderer) Render(templateType string, data map[string]string) (html, text string, err error) {
	name := templateType
	if _, ok := r.html[name]; !ok {
		name = TemplateGeneral
	}
	view := templateView{Company: r.company, Heading: headings[name], Data: data}

	var hb bytes.Buffer
	if err := r.html[name].ExecuteTemplate(&hb, "layout", view); err != nil {
		return "", "", fmt.Errorf("failed to render %s html: %w", name, err)
	}
	var tb bytes.Buffer
	if err := r.text[name].ExecuteTemplate(&tb, name+".txt.tmpl", view); err != nil {
		return "", "", fmt.Errorf("failed to render %s text: %w", name, err)
	}
	return hb.String(), strings.TrimSpace(tb.String()), nil
}
