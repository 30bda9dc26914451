package email

// Email is a single outgoing message
type Email struct {
	From     string
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData is passed to mail templates
type TemplateData map[string]interface{}
