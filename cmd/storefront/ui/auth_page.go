package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"storefront/internal/api"
)

// authMode selects between the login and registration forms.
type authMode int

const (
	modeLogin authMode = iota
	modeSignup
)

// AuthPageModel handles login and account registration.
type AuthPageModel struct {
	width  int
	height int
	mode   authMode

	login  form
	signup form

	busy   bool
	err    error
	notice string

	styles Styles
}

// NewAuthPageModel creates the auth page.
func NewAuthPageModel(styles Styles) AuthPageModel {
	loginForm := newForm([]fieldSpec{
		{key: "username", label: "Username", placeholder: "demo"},
		{key: "password", label: "Password", secret: true},
	})
	signupForm := newForm([]fieldSpec{
		{key: "username", label: "Username"},
		{key: "email", label: "Email"},
		{key: "password", label: "Password", secret: true},
	})
	return AuthPageModel{
		login:  loginForm,
		signup: signupForm,
		styles: styles,
	}
}

// Reset clears both forms.
func (m *AuthPageModel) Reset() {
	m.login.Reset()
	m.signup.Reset()
	m.mode = modeLogin
	m.busy = false
	m.err = nil
	m.notice = ""
}

// Submit dispatches the active form.
func (m *AuthPageModel) Submit(deps Deps) tea.Cmd {
	if m.busy {
		return nil
	}
	m.busy = true
	m.err = nil
	m.notice = ""
	if m.mode == modeSignup {
		return deps.doSignup(m.signup.Value("username"), m.signup.Value("password"), m.signup.Value("email"))
	}
	return deps.doLogin(m.login.Value("username"), m.login.Value("password"))
}

// Update handles messages.
func (m AuthPageModel) Update(msg tea.Msg) (AuthPageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case loginDoneMsg:
		m.busy = false
		m.err = msg.err
		return m, nil

	case signupDoneMsg:
		m.busy = false
		m.err = msg.err
		if msg.err == nil {
			// Account created; drop back to login with the username kept.
			m.mode = modeLogin
			m.login.Reset()
			m.login.SetValue("username", msg.username)
			m.notice = "Account created. Sign in to continue."
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+s" {
			if m.mode == modeLogin {
				m.mode = modeSignup
			} else {
				m.mode = modeLogin
			}
			m.err = nil
			m.notice = ""
			return m, nil
		}
	}

	if m.busy {
		if _, isKey := msg.(tea.KeyMsg); isKey {
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.mode == modeSignup {
		m.signup, cmd = m.signup.Update(msg)
	} else {
		m.login, cmd = m.login.Update(msg)
	}
	return m, cmd
}

// View renders the page.
func (m AuthPageModel) View() string {
	title := "Sign In"
	body := m.login.View(m.styles)
	hint := " • enter: sign in • ctrl+s: create account • esc: back"
	if m.mode == modeSignup {
		title = "Create Account"
		body = m.signup.View(m.styles)
		hint = " • enter: create account • ctrl+s: back to sign in • esc: back"
	}

	status := ""
	switch {
	case m.busy:
		status = m.styles.Muted.Render("Working…")
	case m.err != nil:
		status = m.styles.Error.Render(api.Message(m.err, "request failed"))
	case m.notice != "":
		status = m.styles.Success.Render(m.notice)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render(title),
		"",
		body,
		"",
		status,
		"",
		m.styles.Muted.Render(hint),
	)
}

// SetSize updates the size.
func (m *AuthPageModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	inputW := w - 24
	if inputW > 32 {
		inputW = 32
	}
	if inputW > 0 {
		m.login.SetWidth(inputW)
		m.signup.SetWidth(inputW)
	}
}
