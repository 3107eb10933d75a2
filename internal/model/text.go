package model

import (
	"strings"
	"time"
)

// ContentText flattens every free-text field of c in render order.
func ContentText(c SectionContent) []string {
	var out []string
	add := func(s ...string) {
		for _, v := range s {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	switch v := c.(type) {
	case nil:
	case PersonalInfo:
		add(v.FullName, v.Email, v.Phone, v.Location, v.Website, v.LinkedIn, v.GitHub, v.Summary)
	case EducationList:
		for _, e := range v {
			add(e.Degree, e.FieldOfStudy, e.Institution, e.Location, e.GPA)
			add(e.Achievements...)
		}
	case ExperienceList:
		for _, e := range v {
			add(e.Position, e.Company, e.Location, e.Description)
			add(e.Achievements...)
		}
	case ProjectList:
		for _, p := range v {
			add(p.Name, p.Description)
			add(p.Technologies...)
			add(p.Highlights...)
		}
	case SkillList:
		for _, s := range v {
			add(s.Category)
			add(s.Skills...)
		}
	case CertificationList:
		for _, cert := range v {
			add(cert.Name, cert.Issuer, cert.CredentialID)
		}
	case AwardList:
		for _, a := range v {
			add(a.Title, a.Issuer, a.Description)
		}
	case CustomContent:
		for _, e := range v.Entries {
			add(e.Title, e.Subtitle, e.Description)
			add(e.Bullets...)
		}
	}
	return out
}

// WordCount counts whitespace separated words across visible sections.
func (r *Resume) WordCount() int {
	n := 0
	for _, s := range r.OrderedVisibleSections() {
		n += len(strings.Fields(s.Title))
		for _, t := range ContentText(s.Content) {
			n += len(strings.Fields(t))
		}
	}
	return n
}

var dateLayouts = []string{"2006-01-02", "2006-01", time.RFC3339, "01/2006", "2006"}

// FormatDate renders ISO-ish dates as "Jan 2006". Unparseable input is returned trimmed.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if layout == "2006" {
				return t.Format("2006")
			}
			return t.Format("Jan 2006")
		}
	}
	return s
}

// DateRange joins start and end as "Jan 2020 - Present".
func DateRange(start, end string, current bool) string {
	from := FormatDate(start)
	to := FormatDate(end)
	if current {
		to = "Present"
	}
	switch {
	case from == "" && to == "":
		return ""
	case from == "":
		return to
	case to == "":
		return from
	}
	return from + " - " + to
}
