package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

const (
	TemplateVerification = "verification"

	verificationSubject = "Verify your LinkTree account"
)

const verificationTemplate = `<h1>Welcome to LinkTree!</h1>
<p>Please click the link below to verify your email address:</p>
<a href="{{.VerifyURL}}">Verify Email</a>
<p>If you didn't request this, please ignore this email.</p>
`

// TemplateManager keeps parsed html templates by name
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager returns a manager with the built-in templates loaded
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}
	// built-in templates are constants, a parse error is a programming error
	if err := tm.AddTemplate(TemplateVerification, verificationTemplate); err != nil {
		panic(err)
	}
	return tm
}

func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()
	return nil
}
