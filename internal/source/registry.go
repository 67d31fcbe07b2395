package source

import "sort"

// industryPriority biases which sources are queried first for a profile
// industry: remote-first boards lead for engineering profiles, the broad
// aggregators for everything else.
var industryPriority = map[string][]string{
	"software_engineering": {remoteokName, arbeitnowName, adzunaName, headhunterName},
	"devops_cloud":         {remoteokName, arbeitnowName, adzunaName, headhunterName},
	"data_science":         {adzunaName, headhunterName, remoteokName, arbeitnowName},
	"marketing":            {adzunaName, headhunterName, arbeitnowName, remoteokName},
	"finance":              {adzunaName, headhunterName, arbeitnowName, remoteokName},
	"design":               {adzunaName, arbeitnowName, remoteokName, headhunterName},
}

var defaultPriority = []string{adzunaName, headhunterName, remoteokName, arbeitnowName}

// Priority returns the source query order for an industry. The order is a
// pure function of the industry so discovery stays reproducible for
// identical profiles.
func Priority(industry string) []string {
	if order, ok := industryPriority[industry]; ok {
		return order
	}
	return defaultPriority
}

// Registry holds the adapters available to a run.
type Registry struct {
	adapters map[string]Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter)}
	for _, a := range adapters {
		r.adapters[a.Name()] = a
	}
	return r
}

func (r *Registry) Len() int {
	return len(r.adapters)
}

// Select returns the registered adapters in query order for the industry:
// the industry priority first, then any remaining adapters in name order.
func (r *Registry) Select(industry string) []Adapter {
	var (
		selected []Adapter
		used     = make(map[string]bool)
	)

	for _, name := range Priority(industry) {
		if a, ok := r.adapters[name]; ok {
			selected = append(selected, a)
			used[name] = true
		}
	}

	rest := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		if !used[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		selected = append(selected, r.adapters[name])
	}

	return selected
}
