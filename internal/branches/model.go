package branches

type Branch struct {
	Name   string   `json:"name"`
	State  string   `json:"state,omitempty"`
	Region string   `json:"region,omitempty"`
	Zones  []string `json:"zones,omitempty"`
}

// Builtin is the branch list offered when no CSV directory is configured.
var Builtin = []Branch{
	{Name: "Lagos Headquarters", State: "Lagos", Region: "South West"},
	{Name: "Abuja", State: "FCT", Region: "North Central"},
	{Name: "Port Harcourt", State: "Rivers", Region: "South South"},
	{Name: "Ibadan", State: "Oyo", Region: "South West"},
	{Name: "Enugu", State: "Enugu", Region: "South East"},
}
