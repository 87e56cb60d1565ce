package http

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
)

// The admin screens are deliberately plain: the rendering layer is fed only
// pre-resolved, pre-authorized data and makes no decisions of its own.

const layoutTmpl = `{{define "layout"}}<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{template "title" .}} - Shortify Admin</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.3rem 0.6rem; }
.error { color: #b00; }
nav a { margin-right: 1rem; }
</style>
</head>
<body>
{{template "content" .}}
</body>
</html>{{end}}`

const loginTmpl = `{{define "title"}}Login{{end}}
{{define "content"}}
<h1>Shortify Admin</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/admin/login">
<p><label>Username <input type="text" name="username" value="{{.Username}}"></label></p>
<p><label>Password <input type="password" name="password"></label></p>
{{if .NeedTOTP}}<p><label>One-time code <input type="text" name="totp_code" autocomplete="one-time-code"></label></p>{{end}}
<p><button type="submit">Sign in</button></p>
</form>
{{end}}`

const totpSetupTmpl = `{{define "title"}}Two-factor setup{{end}}
{{define "content"}}
<h1>Two-factor setup</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<p>Add this secret to your authenticator app, then confirm with a live code.</p>
<p><code>{{.Secret}}</code></p>
<p><code>{{.ProvisioningURI}}</code></p>
<form method="post" action="/admin/setup-totp">
<input type="hidden" name="secret" value="{{.Secret}}">
<p><label>Code <input type="text" name="code" autocomplete="one-time-code"></label></p>
<p><button type="submit">Confirm</button></p>
</form>
{{end}}`

const dashboardTmpl = `{{define "title"}}Dashboard{{end}}
{{define "content"}}
<h1>Dashboard</h1>
<p>Signed in as {{.User.Username}}.</p>
<nav>
<a href="/admin/urls">URLs</a>
<a href="/admin/users">Users</a>
<a href="/admin/logout">Log out</a>
</nav>
{{end}}`

const urlsTmpl = `{{define "title"}}URLs{{end}}
{{define "content"}}
<h1>URLs</h1>
<nav><a href="/admin/">Dashboard</a></nav>
<form method="get" action="/admin/urls">
<input type="text" name="q" value="{{.Query}}" placeholder="search">
<button type="submit">Search</button>
</form>
<form method="post" action="/admin/urls/batch-delete">
<table>
<tr><th></th><th>Ident</th><th>External ID</th><th>Origin</th><th>Views</th><th>Created</th><th>Expires</th></tr>
{{range .URLs}}
<tr>
<td><input type="checkbox" name="url_ids" value="{{.ID}}"></td>
<td><a href="/admin/urls/{{.Ident}}">{{.Ident}}</a></td>
<td>{{if .ExternalID}}{{.ExternalID}}{{end}}</td>
<td>{{.Origin}}</td>
<td>{{.Views}}</td>
<td>{{.CreatedAt.Format "2006-01-02 15:04"}}</td>
<td>{{if .ExpiresAt}}{{.ExpiresAt.Format "2006-01-02 15:04"}}{{end}}</td>
</tr>
{{end}}
</table>
<p><button type="submit">Delete selected</button></p>
</form>
<p>Page {{.Page}} of {{.TotalPages}}</p>
{{end}}`

const urlDetailTmpl = `{{define "title"}}{{.URL.Ident}}{{end}}
{{define "content"}}
<h1>{{.URL.Ident}}</h1>
<nav><a href="/admin/urls">URLs</a></nav>
<p>Views: {{.URL.Views}}{{if .URL.LastVisitAt}}, last visit {{.URL.LastVisitAt.Format "2006-01-02 15:04"}}{{end}}</p>
<form method="post" action="/admin/urls/{{.URL.Ident}}">
<p><label>Origin <input type="url" name="origin" value="{{.URL.Origin}}" size="60"></label></p>
<p><label>External ID <input type="text" name="external_id" value="{{if .URL.ExternalID}}{{.URL.ExternalID}}{{end}}"></label></p>
<p><label>Expires at <input type="datetime-local" name="expires_at" value="{{if .URL.ExpiresAt}}{{.URL.ExpiresAt.Format "2006-01-02T15:04"}}{{end}}"></label></p>
<p><button type="submit">Save</button></p>
</form>
{{end}}`

const usersTmpl = `{{define "title"}}Users{{end}}
{{define "content"}}
<h1>Users</h1>
<nav><a href="/admin/">Dashboard</a></nav>
<form method="get" action="/admin/users">
<input type="text" name="q" value="{{.Query}}" placeholder="search">
<button type="submit">Search</button>
</form>
<table>
<tr><th>Username</th><th>Email</th><th>Active</th><th>Superuser</th><th>2FA</th><th></th></tr>
{{range .Users}}
<tr>
<td>{{.Username}}</td>
<td>{{.Email}}</td>
<td>{{.IsActive}}</td>
<td>{{.IsSuperuser}}</td>
<td>{{.TOTPEnrolled}}</td>
<td>
<form method="post" action="/admin/users/rotate-key/{{.ID}}"><button type="submit">Rotate key</button></form>
<form method="post" action="/admin/users/delete/{{.ID}}"><button type="submit">Delete</button></form>
</td>
</tr>
{{end}}
</table>
<p>Page {{.Page}} of {{.TotalPages}}</p>
{{end}}`

var adminTemplates = map[string]*template.Template{
	"login":      mustParse(loginTmpl),
	"totp_setup": mustParse(totpSetupTmpl),
	"dashboard":  mustParse(dashboardTmpl),
	"urls":       mustParse(urlsTmpl),
	"url_detail": mustParse(urlDetailTmpl),
	"users":      mustParse(usersTmpl),
}

func mustParse(page string) *template.Template {
	return template.Must(template.Must(template.New("layout").Parse(layoutTmpl)).Parse(page))
}

func renderHTML(w http.ResponseWriter, name string, status int, data any) {
	tmpl, ok := adminTemplates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Default().Error("failed to render template", slog.String("template", name), slog.Any("err", err))
		http.Error(w, "server error occurred", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
