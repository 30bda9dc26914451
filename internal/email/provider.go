package email

// Provider sends mail on behalf of the application
type Provider interface {
	// Send delivers a prepared message
	Send(email *Email) error

	// SendWithTemplate renders templateName into the HTML body and sends it
	SendWithTemplate(templateName string, data TemplateData, email *Email) error

	// SendVerification sends the account verification link to a new user
	SendVerification(to string, verifyURL string) error

	Validate() error
	Close() error
}

// TemplateRenderer renders named mail templates
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
	AddTemplate(name string, template string) error
}
