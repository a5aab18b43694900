package services

import (
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

type contactView struct {
	Name    string
	Email   string
	Subject string
	Message string
}

var contactFuncs = htmltemplate.FuncMap{
	// lines lets templates emit <br> between escaped message lines.
	"lines": func(s string) []string { return strings.Split(s, "\n") },
}

var adminHTML = htmltemplate.Must(htmltemplate.New("admin.html").Funcs(contactFuncs).Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">New Contact Form Submission</h2>
  <div style="background-color: #f5f5f5; padding: 20px; border-radius: 5px; margin: 20px 0;">
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> {{.Email}}</p>
    <p><strong>Subject:</strong> {{.Subject}}</p>
  </div>
  <div style="background-color: #fff; padding: 20px; border: 1px solid #ddd; border-radius: 5px;">
    <h3 style="color: #333;">Message:</h3>
    <p style="color: #666; line-height: 1.6;">{{range $i, $l := lines .Message}}{{if $i}}<br>{{end}}{{$l}}{{end}}</p>
  </div>
  <hr style="margin: 30px 0; border: none; border-top: 1px solid #ddd;">
  <p style="color: #999; font-size: 12px;">
    This email was sent from your portfolio contact form.
  </p>
</div>
`))

var adminText = texttemplate.Must(texttemplate.New("admin.txt").Parse(`New Contact Form Submission

Name: {{.Name}}
Email: {{.Email}}
Subject: {{.Subject}}

Message:
{{.Message}}
`))

var senderHTML = htmltemplate.Must(htmltemplate.New("sender.html").Funcs(contactFuncs).Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Thanks for contacting us!</h2>
  <p style="color: #666; line-height: 1.6;">
    Hi {{.Name}},
  </p>
  <p style="color: #666; line-height: 1.6;">
    We've received your message and will get back to you as soon as possible.
  </p>
  <div style="background-color: #f5f5f5; padding: 20px; border-radius: 5px; margin: 20px 0;">
    <h3 style="color: #333;">Your message:</h3>
    <p style="color: #666;"><strong>Subject:</strong> {{.Subject}}</p>
    <p style="color: #666; line-height: 1.6;">{{range $i, $l := lines .Message}}{{if $i}}<br>{{end}}{{$l}}{{end}}</p>
  </div>
  <p style="color: #666; line-height: 1.6;">
    Best regards,<br>
    Adam &amp; Noah
  </p>
</div>
`))

var senderText = texttemplate.Must(texttemplate.New("sender.txt").Parse(`Hi {{.Name}},

Thanks for reaching out! We've received your message and will get back to you as soon as possible.

Your message:
Subject: {{.Subject}}
{{.Message}}

Best regards,
Adam & Noah
`))

func renderHTML(t *htmltemplate.Template, v contactView) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, v); err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}

func renderText(t *texttemplate.Template, v contactView) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, v); err != nil {
		return "", err
	}
	return b.String(), nil
}
