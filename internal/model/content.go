package model

type PortfolioItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Sector      string `json:"sector"`
	Description string `json:"description"`
}

type TeamMember struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title"`
	Bio   string `json:"bio"`
}

// ContentDocument is the full public site configuration. It is replaced as a
// whole on publish; there are no partial-field patch semantics at the storage
// layer. Every field has a default so the site is renderable before any edit.
type ContentDocument struct {
	LogoURL        string          `json:"logoUrl"`
	FaviconURL     string          `json:"faviconUrl"`
	HeroTitle      string          `json:"heroTitle"`
	HeroSubtitle   string          `json:"heroSubtitle"`
	HeroImageURL   string          `json:"heroImageUrl"`
	AboutText      string          `json:"aboutText"`
	StrategyTitle  string          `json:"strategyTitle"`
	StrategyText   string          `json:"strategyText"`
	PhilosophyText string          `json:"philosophyText"`
	Sectors        []string        `json:"sectors"`
	PortfolioItems []PortfolioItem `json:"portfolioItems"`
	TeamMembers    []TeamMember    `json:"teamMembers"`
}

func DefaultContent() ContentDocument {
	return ContentDocument{
		LogoURL:       "https://placehold.co/400x100/00b36e/ffffff?text=Centralake+Capital",
		FaviconURL:    "https://placehold.co/32x32/00b36e/ffffff?text=C",
		HeroTitle:     "Driving Transformation Through Strategic Capital",
		HeroSubtitle:  "Centralake Capital is a global private equity firm specializing in mid-market sector-leading companies.",
		HeroImageURL:  "https://images.unsplash.com/photo-1542744173-8e7e53415bb0?auto=format&fit=crop&q=80&w=2070",
		AboutText:     "Centralake Capital focuses on private equity and special situations. We partner with world-class management teams by providing patient, long-term capital.",
		StrategyTitle: "Integrated Operational Value Creation",
		StrategyText:  "Our strategy is built upon a foundation of deep sector expertise and a repeatable playbook for operational improvement. We don't just invest capital; we invest in the infrastructure of growth.",
		PhilosophyText: "We believe in sustainable business practices that drive long-term value for our investors and the communities in which we operate.",
		Sectors:        []string{"Enterprise Software", "Next-Gen Industrials", "Healthcare Tech", "Specialty Consumer"},
		PortfolioItems: []PortfolioItem{
			{ID: "p1", Name: "Aether Systems", Sector: "Software", Description: "Cloud-native infrastructure management for global enterprises."},
			{ID: "p2", Name: "GreenDynamics", Sector: "Industrials", Description: "Precision manufacturing for the renewable energy supply chain."},
			{ID: "p3", Name: "VitalConnect", Sector: "Healthcare", Description: "Pioneering remote patient monitoring and telemedicine platforms."},
		},
		TeamMembers: []TeamMember{
			{ID: "t1", Name: "Dr. Richard Chen", Title: "Managing Partner", Bio: "25+ years in private equity and operational leadership."},
			{ID: "t2", Name: "Elena Rodriguez", Title: "Chief Investment Officer", Bio: "Former head of global M&A at Tier-1 investment bank."},
		},
	}
}
