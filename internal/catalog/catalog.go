package catalog

import (
	"sort"
	"strings"
)

const DefaultProgramName = "BJJ Program"

// Program is one purchasable training program. Price is in paise.
type Program struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Level       string   `json:"level"`
	Price       int64    `json:"price"`
	Features    []string `json:"features"`
}

var programs = map[string]Program{
	"beginner": {
		ID:          "beginner",
		Name:        "Beginner BJJ Program",
		Description: "Perfect for those new to Brazilian Jiu-Jitsu. Learn the fundamentals and build a solid foundation.",
		Level:       "Beginner",
		Price:       1000000,
		Features: []string{
			"Fundamentals of BJJ",
			"Basic self-defense techniques",
			"Proper warm-up and stretching routines",
			"12-week structured curriculum",
			"Weekly mountain endurance training",
		},
	},
	"intermediate": {
		ID:          "intermediate",
		Name:        "Intermediate BJJ Program",
		Description: "Take your skills to the next level. Advance your techniques and start competitive training.",
		Level:       "Intermediate",
		Price:       2000000,
		Features: []string{
			"Advanced guard techniques",
			"Specialized competition preparation",
			"16-week advanced curriculum",
			"Bi-weekly mountain training camps",
			"Personalized feedback from instructors",
		},
	},
	"advanced": {
		ID:          "advanced",
		Name:        "Jiu Jitsu Instructor Program",
		Description: "Develop your teaching skills and become a certified BJJ instructor.",
		Level:       "Advanced",
		Price:       3000000,
		Features: []string{
			"24-week comprehensive program",
			"Teaching methodology training",
			"High-altitude endurance camps",
			"Certification upon completion",
			"Private coaching sessions",
		},
	},
	"private-lessons": {
		ID:          "private-lessons",
		Name:        "Private BJJ Lessons",
		Description: "One-on-one sessions tailored to your goals.",
		Level:       "All levels",
		Price:       3000000,
		Features: []string{
			"Personalized curriculum",
			"Flexible scheduling",
			"Video review of your rolls",
		},
	},
}

// older program ids still linked from the site
var aliases = map[string]string{
	"beginners-course": "beginner",
	"advanced-course":  "advanced",
}

// Lookup finds a program by id or alias.
func Lookup(id string) (Program, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	if canonical, ok := aliases[id]; ok {
		id = canonical
	}
	p, ok := programs[id]
	return p, ok
}

// Name returns the display name for a program id, or DefaultProgramName.
func Name(id string) string {
	if p, ok := Lookup(id); ok {
		return p.Name
	}
	return DefaultProgramName
}

// All returns the programs ordered by price, cheapest first.
func All() []Program {
	out := make([]Program, 0, len(programs))
	for _, p := range programs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Price == out[j].Price {
			return out[i].ID < out[j].ID
		}
		return out[i].Price < out[j].Price
	})
	return out
}
