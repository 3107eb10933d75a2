// Package modeltest provides resume fixtures shared by tests.
package modeltest

import (
	"time"

	"resume-export/internal/model"

	"github.com/google/uuid"
)

// Minimal returns the two-section resume used by the DOCX heading checks.
func Minimal() *model.Resume {
	return &model.Resume{
		ID:    uuid.MustParse("0f6c3a4e-8a51-4d37-9a1c-1d2f3e4a5b6c"),
		Title: "John Doe Resume",
		Sections: []model.Section{
			{
				ID: "personal", Type: model.SectionPersonalInfo, Title: "Personal Info", Visible: true, Order: 0,
				Content: model.PersonalInfo{FullName: "John Doe", Email: "john@example.com"},
			},
			{
				ID: "edu", Type: model.SectionEducation, Title: "Education", Visible: true, Order: 1,
				Content: model.EducationList{{
					Institution: "State University", Degree: "BSc", FieldOfStudy: "Computer Science",
					StartDate: "2016-09", EndDate: "2020-06",
				}},
			},
		},
	}
}

// Full returns a resume exercising every section type, styling and a hidden section.
func Full() *model.Resume {
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	exported := time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC)
	return &model.Resume{
		ID:     uuid.MustParse("7b0e2b8c-3f0b-4c8e-9d53-5a0e6f1c2d3e"),
		UserID: uuid.MustParse("9136d765-327d-4cf3-bf1c-98aa1449e52d"),
		Title:  "Jane Smith - Backend Engineer!",
		Sections: []model.Section{
			{
				ID: "exp", Type: model.SectionExperience, Title: "Experience", Visible: true, Order: 2,
				Content: model.ExperienceList{{
					Company: "Acme Corp", Position: "Senior Engineer", Location: "Remote",
					StartDate: "2021-02", Current: true,
					Description:  "Owns the billing platform.",
					Achievements: []string{"Cut p99 latency by 40%", "Led migration to Postgres 15"},
				}},
			},
			{
				ID: "pi", Type: model.SectionPersonalInfo, Title: "Personal Info", Visible: true, Order: 0,
				Content: model.PersonalInfo{
					FullName: "Jane Smith", Email: "jane@example.com", Phone: "+1 555 0100",
					Location: "Berlin", Website: "https://jane.dev", LinkedIn: "https://linkedin.com/in/jane",
					GitHub: "https://github.com/jane", Summary: "Backend engineer focused on reliability.",
				},
			},
			{
				ID: "edu", Type: model.SectionEducation, Title: "Education", Visible: true, Order: 1,
				Content: model.EducationList{{
					Institution: "TU Berlin", Degree: "MSc", FieldOfStudy: "Distributed Systems",
					StartDate: "2017-10", EndDate: "2019-09", GPA: "1.3",
					Achievements: []string{"Thesis on consensus protocols"},
				}},
			},
			{
				ID: "proj", Type: model.SectionProjects, Title: "Projects", Visible: true, Order: 3,
				Content: model.ProjectList{{
					Name: "queuekit", Description: "Durable job queue.", Technologies: []string{"Go", "Redis"},
					URL: "https://queuekit.dev", Highlights: []string{"2k GitHub stars"},
				}},
			},
			{
				ID: "skills", Type: model.SectionSkills, Title: "Skills", Visible: true, Order: 4,
				Content: model.SkillList{
					{Category: "Languages", Skills: []string{"Go", "SQL", "TypeScript"}},
					{Category: "Infra", Skills: []string{"Kubernetes", "Terraform"}},
				},
			},
			{
				ID: "certs", Type: model.SectionCertifications, Title: "Certifications", Visible: true, Order: 5,
				Content: model.CertificationList{{
					Name: "Certified Kubernetes Administrator", Issuer: "CNCF", Date: "2023-05",
					URL: "https://www.credly.com/badges/abc",
				}},
			},
			{
				ID: "awards", Type: model.SectionAwards, Title: "Awards", Visible: true, Order: 6,
				Content: model.AwardList{{Title: "Hackathon Winner", Issuer: "Codeunia", Date: "2022-11"}},
			},
			{
				ID: "custom", Type: model.SectionCustom, Title: "Volunteering", Visible: true, Order: 7,
				Content: model.CustomContent{Entries: []model.CustomEntry{{
					Title: "Mentor", Subtitle: "Rails Girls", Date: "2020",
					Bullets: []string{"Coached 12 first-time programmers"},
				}}},
			},
			{
				ID: "hidden", Type: model.SectionAwards, Title: "Old Awards", Visible: false, Order: 8,
				Content: model.AwardList{{Title: "SECRET-HIDDEN-AWARD"}},
			},
		},
		Styling: model.Styling{
			FontFamily: "Georgia", FontSize: 10.5, PrimaryColor: "#111111", TextColor: "#222222",
			AccentColor: "#0055aa", LineHeight: 1.3,
			Margins: &model.Margins{Top: 15, Right: 18, Bottom: 15, Left: 18},
		},
		Metadata:  model.Metadata{PageCount: 1, WordCount: 120, LastExportedAt: &exported},
		CreatedAt: created,
		UpdatedAt: created,
	}
}
