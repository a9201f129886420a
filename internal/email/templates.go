package email

import (
	"bytes"
	"html/template"
	"time"
)

var layout = template.Must(template.New("layout").Parse(`<table style="width:100%;max-width:600px;margin:0 auto;border-collapse:collapse;">
<tr><td style="padding:20px;text-align:center;border-bottom:3px solid #db3f59;"><strong>AI Math Solver</strong></td></tr>
<tr><td style="padding:30px;">{{template "content" .}}</td></tr>
<tr><td style="padding:20px;text-align:center;font-size:12px;color:#666;">
<p><strong>AI Math Solver</strong><br>Making mathematics easier for everyone</p>
<p>&copy; {{.Year}} AI Math Solver. All rights reserved.</p>
</td></tr>
</table>`))

var verificationTmpl = template.Must(template.Must(layout.Clone()).Parse(`{{define "content"}}
<h2>Welcome to AI Math Solver, {{.Name}}!</h2>
<p>Thank you for registering with us. Please verify your email address by clicking the button below:</p>
<p style="text-align:center;"><a href="{{.Link}}" style="padding:12px 30px;background-color:#db3f59;color:white;text-decoration:none;border-radius:5px;">Verify Email Address</a></p>
<p><strong>Or copy this link:</strong><br>{{.Link}}</p>
<p><strong>This link expires in 24 hours.</strong></p>
<p>If you didn't create this account, please ignore this email.</p>
{{end}}`))

var resetTmpl = template.Must(template.Must(layout.Clone()).Parse(`{{define "content"}}
<h2>Password Reset Request</h2>
<p>Hi {{.Name}},</p>
<p>We received a request to reset your password. If you made this request, click the button below to create a new password:</p>
<p style="text-align:center;"><a href="{{.Link}}" style="padding:12px 30px;background-color:#db3f59;color:white;text-decoration:none;border-radius:5px;">Reset Password</a></p>
<p><strong>Or copy this link:</strong><br>{{.Link}}</p>
<p><strong>This link expires in 1 hour.</strong></p>
<p>If you didn't request a password reset, please ignore this email.</p>
{{end}}`))

var welcomeTmpl = template.Must(template.Must(layout.Clone()).Parse(`{{define "content"}}
<h2>Welcome to AI Math Solver, {{.Name}}!</h2>
<p>Your account has been successfully created and you're all set to start solving math problems with the power of AI.</p>
<p><a href="{{.Link}}" style="padding:10px 20px;background-color:#db3f59;color:white;text-decoration:none;border-radius:5px;">Go to AI Math Solver</a></p>
<ul>
<li><strong>Solve Math Problems:</strong> AI-powered solutions and step-by-step explanations</li>
<li><strong>Save Solutions:</strong> bookmark your solutions for quick access later</li>
<li><strong>View History:</strong> keep track of the problems you've solved</li>
</ul>
{{end}}`))

type templateData struct {
	Name string
	Link string
	Year int
}

func render(tmpl *template.Template, name, link string) (string, error) {
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, templateData{Name: name, Link: link, Year: time.Now().Year()})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
