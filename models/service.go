package models

// ServiceOffering is the catalog view the booking core consumes: which
// provider performs the service, how long it takes, and whether it can
// currently be booked. Catalog management lives outside this server.
type ServiceOffering struct {
	ID              string `bson:"id" json:"id"`
	ProviderID      string `bson:"providerId" json:"providerId"`
	Name            string `bson:"name" json:"name"`
	DurationMinutes int    `bson:"durationMinutes" json:"durationMinutes"`
	Available       bool   `bson:"available" json:"available"`
}

// WorkingWindow is a provider's bookable window on one weekday,
// expressed in minutes from midnight.
type WorkingWindow struct {
	Weekday int `bson:"weekday" json:"weekday"` // 0 = Sunday, per time.Weekday
	Start   int `bson:"start" json:"start"`
	End     int `bson:"end" json:"end"`
}

// Provider holds the scheduling-relevant slice of a provider profile.
type Provider struct {
	ID    string          `bson:"id" json:"id"`
	Name  string          `bson:"name" json:"name"`
	Hours []WorkingWindow `bson:"hours" json:"hours"`
}

// WindowFor returns the working window for the given weekday, if any.
func (p Provider) WindowFor(weekday int) (WorkingWindow, bool) {
	for _, w := range p.Hours {
		if w.Weekday == weekday {
			return w, true
		}
	}
	return WorkingWindow{}, false
}
