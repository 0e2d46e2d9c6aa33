package domain

import "encoding/json"

// CollegeSummary is a single row of the college listing
type CollegeSummary struct {
	ID             string          `json:"_id"`
	Name           string          `json:"name"`
	Slug           string          `json:"slug"`
	Logo           string          `json:"logo,omitempty"`
	Type           string          `json:"type,omitempty"` // ownership, e.g. "Government"
	Location       Location        `json:"location"`
	NIRFRank       *int            `json:"nirfRank,omitempty"`
	Rating         *float64        `json:"rating,omitempty"`
	CoursesOffered []CourseOffered `json:"coursesOffered,omitempty"`
	Streams        []string        `json:"streams,omitempty"`
	Fees           *Fees           `json:"fees,omitempty"`
	Website        string          `json:"website,omitempty"`
}

// Location is where a college sits
type Location struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Address string `json:"address,omitempty"`
}

// CourseOffered is one course line on a college card
type CourseOffered struct {
	CourseName string  `json:"courseName"`
	Fee        float64 `json:"fee"`
}

// Fees holds the headline fee figures
type Fees struct {
	Tuition float64 `json:"tuition"`
}

// Place renders "City, State" skipping empty parts
func (l Location) Place() string {
	switch {
	case l.City != "" && l.State != "":
		return l.City + ", " + l.State
	case l.City != "":
		return l.City
	default:
		return l.State
	}
}

// Suggestion is a type-ahead hit from the college search endpoint
type Suggestion struct {
	ID       string   `json:"_id"`
	Name     string   `json:"name"`
	Slug     string   `json:"slug"`
	Location Location `json:"location"`
}

// CollegeDetail is the full college document served by /colleges/:slug
type CollegeDetail struct {
	CollegeSummary
	About         string   `json:"about,omitempty"` // HTML from the CMS
	Established   int      `json:"established,omitempty"`
	Affiliation   string   `json:"affiliation,omitempty"`
	Accreditation string   `json:"accreditation,omitempty"`
	Facilities    []string `json:"facilities,omitempty"`
	Email         string   `json:"email,omitempty"`
	Phone         string   `json:"phone,omitempty"`
}

// Page is a loosely typed content document (course or exam page)
type Page struct {
	ID          string         `json:"_id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description string         `json:"description,omitempty"`
	Fields      map[string]any `json:"-"` // everything else the backend sent
}

// UnmarshalJSON keeps the known fields typed and the rest in Fields
func (p *Page) UnmarshalJSON(data []byte) error {
	type plain Page
	var known plain
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	var rest map[string]any
	if err := json.Unmarshal(data, &rest); err != nil {
		return err
	}
	for _, k := range []string{"_id", "name", "slug", "description"} {
		delete(rest, k)
	}
	*p = Page(known)
	p.Fields = rest
	return nil
}

// ResultPage is one page of the college listing as reported by the backend
type ResultPage struct {
	Colleges []CollegeSummary
	Pages    int // server-reported page count, uncapped
}
