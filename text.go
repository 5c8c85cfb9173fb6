package main

import (
	"strings"

	"github.com/mbabazielroy/portfolio/internal/chat"
	"github.com/mbabazielroy/portfolio/internal/recommend"
)

var (
	AboutMe = `I am a senior Computer Science student at the University of Washington with a minor in
	Mathematics. My journey in technology has equipped me with strong programming skills in Python,
	Java, C, C++, and web technologies. Through my academic journey across different continents, I've
	developed a unique perspective and adaptability that enhances my problem-solving abilities.`

	Headline = "Founder, Mbabazi Technologies Inc."

	Contact = chat.ContactCard{
		Name:     "Elroy Mbabazi",
		Email:    "mbabazielroy@yahoo.com",
		Phone:    "+1 (437) 221-0664",
		LinkedIn: "linkedin.com/in/elroy-mbabazi",
		GitHub:   "github.com/mbabazielroy",
		Location: "Ontario, Canada",
	}
)

// Catalog is the built-in project list used by the chat assistant and the
// recommendation endpoint.
var Catalog = []recommend.Project{
	{
		Title:       "Bgcdllc - General Contractor",
		Description: "Bgcdllc is a general contractor company that provides construction services to clients. It is a website that allows clients to view the company's services and contact the company.",
		Tags:        []string{"React", "TailwindCSS", "Next.js"},
		GithubURL:   "https://github.com/mbabazielroy/bgcd1",
		LiveURL:     "https://bgcdllc.com",
		Image:       "https://images.unsplash.com/photo-1517694712202-14dd9538aa97?auto=format&fit=crop&q=80",
	},
	{
		Title:       "Shine&Demure - cleaning products and services",
		Description: "Shine&Demure is a cleaning products and services company that provides cleaning services to clients. It is a website that allows clients to view the company's services and contact the company.",
		Tags:        []string{"React", "TailwindCSS", "Next.js"},
		GithubURL:   "https://github.com/mbabazielroy/shinedemure",
		LiveURL:     "https://shinedemure.com",
		Image:       "https://images.unsplash.com/photo-1517694712202-14dd9538aa97?auto=format&fit=crop&q=80",
	},
}

// Education is one school entry on the education tab.
type Education struct {
	School   string
	Degree   string
	Location string
	Period   string
	Image    string
}

var EducationHistory = []Education{
	{
		School:   "University of Washington Tacoma",
		Degree:   "BS in Computer Science and Systems, Minor in Mathematics",
		Location: "Tacoma, WA, USA",
		Period:   "2022 - Present",
		Image:    "https://washingtontechnology.org/wp-content/uploads/2014/09/5385797307_a8bc2335f1_b.jpg",
	},
	{
		School:   "Tacoma Community College",
		Degree:   "Associate's Degree",
		Location: "Tacoma, WA, USA",
		Period:   "2019 - 2022",
		Image:    "https://websterart.com/tcc/images/15-1big.jpg",
	},
	{
		School:   "St. Augustine's College Wakiso",
		Degree:   "A-Level Education",
		Location: "Wakiso, Uganda",
		Period:   "2019",
	},
	{
		School:   "St. Mary's College Kisubi",
		Degree:   "O-Level Education",
		Location: "Kisubi, Uganda",
		Period:   "2015 - 2018",
	},
}

// Job is one entry on the work tab.
type Job struct {
	Title        string
	Company      string
	Period       string
	BulletPoints []string
}

var WorkHistory = []Job{
	{
		Title:   "Founder",
		Company: "Mbabazi Technologies Inc.",
		BulletPoints: []string{
			"Building Sendly, safer mobile money for East Africa with username transfers and recipient confirmation",
		},
	},
}

// vCard renders the downloadable business card.
func vCard(c chat.ContactCard) string {
	phone := strings.NewReplacer(" ", "", "(", "", ")", "", "-", "").Replace(c.Phone)
	lines := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"FN:" + c.Name,
		"ORG:Mbabazi Technologies Inc.",
		"TITLE:Founder",
		"TEL;TYPE=CELL:" + phone,
		"EMAIL:" + c.Email,
		"URL:https://www." + c.LinkedIn + "/",
		"URL:https://" + c.GitHub,
		"NOTE:Founder of Sendly, mobile money for East Africa. Building safer transactions with username-based transfers and recipient confirmation.",
		"END:VCARD",
	}
	return strings.Join(lines, "\r\n") + "\r\n"
}
