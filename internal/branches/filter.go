package branches

import "strings"

type FilterOptions struct {
	Regions   []string `form:"region"`
	FreeWords string   `form:"q"`
}

// Filter keeps branches in any of the given regions whose name, state or
// zones contain every free word (case-insensitive).
func Filter(all []Branch, opt FilterOptions) []Branch {
	out := []Branch{}
	kw := strings.Fields(strings.ToLower(opt.FreeWords))
	for _, b := range all {
		if len(opt.Regions) > 0 {
			matched := false
			for _, r := range opt.Regions {
				if strings.EqualFold(b.Region, r) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		hay := strings.ToLower(b.Name + " " + b.State + " " + strings.Join(b.Zones, " "))
		ok := true
		for _, k := range kw {
			if !strings.Contains(hay, k) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, b)
		}
	}
	return out
}
