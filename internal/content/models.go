package content

// Catalog is the browsable content of the home screen.
type Catalog struct {
	Version int      `json:"version" yaml:"version" validate:"gte=0"`
	Banners []Banner `json:"banners" yaml:"banners" validate:"dive"`
	Careers []Career `json:"careers" yaml:"careers" validate:"dive"`
}

// Banner is one item of the banner carousel.
type Banner struct {
	ID      string `json:"id" yaml:"id" validate:"required"`
	Image   string `json:"image" yaml:"image" validate:"required,image_ref"`
	Caption string `json:"caption,omitempty" yaml:"caption,omitempty"`
}

// Career is one item of the career card carousel.
type Career struct {
	ID           string   `json:"id" yaml:"id" validate:"required"`
	Title        string   `json:"title" yaml:"title" validate:"required"`
	Body         string   `json:"body" yaml:"body" validate:"required"`
	Illustration string   `json:"illustration,omitempty" yaml:"illustration,omitempty"`
	Detail       string   `json:"detail,omitempty" yaml:"detail,omitempty"`
	Course       *Course  `json:"course,omitempty" yaml:"course,omitempty"`
	Tags         []string `json:"tags,omitempty" yaml:"tags,omitempty" validate:"dive,required"`
}

// Course is the paid course attached to a career.
type Course struct {
	Name          string `json:"name" yaml:"name" validate:"required"`
	PricePaise    int64  `json:"price_paise" yaml:"price_paise" validate:"gte=0"`
	DurationWeeks int    `json:"duration_weeks" yaml:"duration_weeks" validate:"gte=0"`
}

// FindCareer returns the career with the given id.
func (c *Catalog) FindCareer(id string) (Career, bool) {
	if c == nil {
		return Career{}, false
	}
	for _, cr := range c.Careers {
		if cr.ID == id {
			return cr, true
		}
	}
	return Career{}, false
}

// Empty reports whether the catalog has nothing to show.
func (c *Catalog) Empty() bool {
	return c == nil || (len(c.Banners) == 0 && len(c.Careers) == 0)
}
