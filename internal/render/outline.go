package render

import (
	"fmt"
	"net/url"
	"strings"

	"resume-export/internal/model"

	"golang.org/x/net/publicsuffix"
)

// Block is a format-neutral view of one visible section. The HTML preview
// and the DOCX builder both render from it so the two exports stay aligned.
type Block struct {
	Type     model.SectionType
	Title    string
	Personal *Personal
	Entries  []Entry
}

type Personal struct {
	FullName string
	Contact  []string
	Links    []string
	Summary  string
}

// Entry is one item of a list section. Inline entries render as
// "Heading: line" on a single line (skills).
type Entry struct {
	Heading    string
	Subheading string
	Dates      string
	Lines      []string
	Bullets    []string
	Inline     bool
}

// Outline maps the ordered visible sections of r to blocks.
func Outline(r *model.Resume) ([]Block, error) {
	sections := r.OrderedVisibleSections()
	out := make([]Block, 0, len(sections))
	for _, s := range sections {
		b := Block{Type: s.Type, Title: sectionTitle(s)}
		switch c := s.Content.(type) {
		case nil:
		case model.PersonalInfo:
			b.Personal = &Personal{
				FullName: strings.TrimSpace(c.FullName),
				Contact:  nonEmpty(c.Email, c.Phone, c.Location),
				Links:    nonEmpty(c.Website, c.LinkedIn, c.GitHub),
				Summary:  strings.TrimSpace(c.Summary),
			}
		case model.EducationList:
			for _, e := range c {
				heading := e.Degree
				if e.FieldOfStudy != "" {
					heading = joinNonEmpty(" in ", e.Degree, e.FieldOfStudy)
				}
				entry := Entry{
					Heading:    heading,
					Subheading: joinNonEmpty(" | ", e.Institution, e.Location),
					Dates:      model.DateRange(e.StartDate, e.EndDate, e.Current),
					Bullets:    nonEmpty(e.Achievements...),
				}
				if e.GPA != "" {
					entry.Lines = append(entry.Lines, "GPA: "+e.GPA)
				}
				b.Entries = append(b.Entries, entry)
			}
		case model.ExperienceList:
			for _, e := range c {
				b.Entries = append(b.Entries, Entry{
					Heading:    e.Position,
					Subheading: joinNonEmpty(" | ", e.Company, e.Location),
					Dates:      model.DateRange(e.StartDate, e.EndDate, e.Current),
					Lines:      nonEmpty(e.Description),
					Bullets:    nonEmpty(e.Achievements...),
				})
			}
		case model.ProjectList:
			for _, p := range c {
				entry := Entry{
					Heading: p.Name,
					Dates:   model.DateRange(p.StartDate, p.EndDate, false),
					Lines:   nonEmpty(p.Description),
					Bullets: nonEmpty(p.Highlights...),
				}
				if techs := nonEmpty(p.Technologies...); len(techs) > 0 {
					entry.Subheading = "Technologies: " + strings.Join(techs, ", ")
				}
				entry.Lines = append(entry.Lines, nonEmpty(p.URL, p.GitHub)...)
				b.Entries = append(b.Entries, entry)
			}
		case model.SkillList:
			for _, sc := range c {
				b.Entries = append(b.Entries, Entry{
					Heading: sc.Category,
					Lines:   []string{strings.Join(nonEmpty(sc.Skills...), ", ")},
					Inline:  true,
				})
			}
		case model.CertificationList:
			for _, cert := range c {
				entry := Entry{
					Heading:    cert.Name,
					Subheading: cert.Issuer,
					Dates:      model.DateRange(cert.Date, cert.ExpiryDate, false),
				}
				if cert.CredentialID != "" {
					entry.Lines = append(entry.Lines, "Credential ID: "+cert.CredentialID)
				}
				if cert.URL != "" {
					entry.Lines = append(entry.Lines, "Verify: "+URLLabel(cert.URL))
				}
				b.Entries = append(b.Entries, entry)
			}
		case model.AwardList:
			for _, a := range c {
				b.Entries = append(b.Entries, Entry{
					Heading:    a.Title,
					Subheading: a.Issuer,
					Dates:      model.FormatDate(a.Date),
					Lines:      nonEmpty(a.Description),
				})
			}
		case model.CustomContent:
			for _, e := range c.Entries {
				b.Entries = append(b.Entries, Entry{
					Heading:    e.Title,
					Subheading: e.Subtitle,
					Dates:      model.FormatDate(e.Date),
					Lines:      nonEmpty(e.Description),
					Bullets:    nonEmpty(e.Bullets...),
				})
			}
		default:
			return nil, fmt.Errorf("section %q: unsupported content %T", s.ID, s.Content)
		}
		out = append(out, b)
	}
	return out, nil
}

func sectionTitle(s model.Section) string {
	if t := strings.TrimSpace(s.Title); t != "" {
		return t
	}
	words := strings.Fields(strings.ReplaceAll(string(s.Type), "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// URLLabel shortens a URL to its registrable domain ("www.credly.com/x" -> "credly.com").
func URLLabel(raw string) string {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return ""
	}
	if !strings.HasPrefix(candidate, "http://") && !strings.HasPrefix(candidate, "https://") {
		candidate = "https://" + candidate
	}
	parsed, err := url.Parse(candidate)
	if err != nil || parsed.Hostname() == "" {
		return raw
	}
	host := parsed.Hostname()
	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return strings.TrimPrefix(etld, "www.")
	}
	return strings.TrimPrefix(host, "www.")
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func joinNonEmpty(sep string, values ...string) string {
	return strings.Join(nonEmpty(values...), sep)
}
