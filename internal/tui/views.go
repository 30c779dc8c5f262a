package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model
func (m ConsoleModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenLoading:
		return m.spinner.View() + " Loading session..."
	case screenLogin:
		return m.login.View()
	case screenRegister:
		return m.register.View()
	case screenOTP:
		var b strings.Builder
		if m.notice != "" {
			b.WriteString(m.styles.Subtitle.Render(m.notice))
			b.WriteString("\n")
		}
		b.WriteString(m.otp.View())
		return b.String()
	default:
		return m.renderViews()
	}
}

// renderViews renders the tab bar and the active data view
func (m ConsoleModel) renderViews() string {
	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.notice != "" {
		b.WriteString(m.styles.Warning.Render(m.notice))
		b.WriteString("\n\n")
	}
	if m.errMsg != "" {
		b.WriteString(m.styles.Error.Render(m.errMsg))
		b.WriteString("\n\n")
	}

	if m.loading {
		b.WriteString(m.spinner.View() + " Loading...")
		b.WriteString("\n")
	}

	switch m.view {
	case ViewDashboard:
		b.WriteString(m.renderDashboard())
	case ViewEmployees:
		b.WriteString(m.renderEmployees())
	case ViewSubjects:
		b.WriteString(m.renderSubjects())
	case ViewAttendance:
		b.WriteString(m.renderAttendance())
	case ViewProfile:
		b.WriteString(m.renderProfile())
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("1-5 views • r refresh • n/p page • l sign out • q quit"))
	return b.String()
}

// renderTabs renders the view tab bar. Admin-only tabs are dimmed for
// non-admin identities.
func (m ConsoleModel) renderTabs() string {
	views := []View{ViewDashboard, ViewEmployees, ViewSubjects, ViewAttendance, ViewProfile}

	tabs := make([]string, 0, len(views))
	for i, v := range views {
		label := fmt.Sprintf("%d %s", i+1, v.Title())
		switch {
		case v == m.view:
			tabs = append(tabs, m.styles.ActiveTab.Render(label))
		case Decide(m.snapshot, v.Requirement()) != DecisionAllow:
			tabs = append(tabs, m.styles.Muted.Render(label))
		default:
			tabs = append(tabs, m.styles.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m ConsoleModel) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Attendly"))
	b.WriteString("\n")

	if m.snapshot.User != nil {
		b.WriteString(fmt.Sprintf("Signed in as %s (%s)\n",
			m.snapshot.User.Email, strings.ToLower(m.snapshot.User.Role)))
	}

	if m.profile != nil {
		b.WriteString(fmt.Sprintf("Linked profile: %s, class %s\n", m.profile.Name, m.profile.Class))
	} else if !m.loading {
		b.WriteString(m.styles.Muted.Render("No employee profile is linked to this account."))
		b.WriteString("\n")
	}
	return b.String()
}

func (m ConsoleModel) renderEmployees() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Employees"))
	b.WriteString("\n")

	if m.employees == nil {
		return b.String()
	}

	for _, e := range m.employees.Employees {
		status := "active"
		if !e.IsActive {
			status = "inactive"
		}
		b.WriteString(fmt.Sprintf("  %-24s  age %-3d  class %-4s  %s\n", e.Name, e.Age, e.Class, status))
	}

	pageNum := m.employeesSkip/pageSize + 1
	footer := fmt.Sprintf("page %d • %d total", pageNum, m.employees.TotalCount)
	if m.fromCache {
		footer += " • cached"
	}
	b.WriteString(m.styles.Muted.Render(footer))
	b.WriteString("\n")
	return b.String()
}

func (m ConsoleModel) renderSubjects() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Subjects"))
	b.WriteString("\n")

	for _, s := range m.subjects {
		b.WriteString(fmt.Sprintf("  %-24s  %d assigned\n", s.Name, len(s.Employees)))
	}
	return b.String()
}

func (m ConsoleModel) renderAttendance() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("My attendance"))
	b.WriteString("\n")

	if len(m.attendance) == 0 && !m.loading {
		b.WriteString(m.styles.Muted.Render("No attendance records."))
		b.WriteString("\n")
		return b.String()
	}

	for _, r := range m.attendance {
		style := m.styles.Success
		if r.Status != "PRESENT" {
			style = m.styles.Warning
		}
		b.WriteString(fmt.Sprintf("  %s  %s\n", r.Date, style.Render(r.Status)))
	}
	return b.String()
}

func (m ConsoleModel) renderProfile() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Profile"))
	b.WriteString("\n")

	if m.profile == nil {
		if !m.loading {
			b.WriteString(m.styles.Muted.Render("No employee profile is linked to this account."))
			b.WriteString("\n")
		}
		return b.String()
	}

	b.WriteString(fmt.Sprintf("  Name:   %s\n", m.profile.Name))
	b.WriteString(fmt.Sprintf("  Age:    %d\n", m.profile.Age))
	b.WriteString(fmt.Sprintf("  Class:  %s\n", m.profile.Class))

	if len(m.profile.Subjects) > 0 {
		names := make([]string, 0, len(m.profile.Subjects))
		for _, s := range m.profile.Subjects {
			names = append(names, s.Name)
		}
		b.WriteString(fmt.Sprintf("  Subjects: %s\n", strings.Join(names, ", ")))
	}
	return b.String()
}
