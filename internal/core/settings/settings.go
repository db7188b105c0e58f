// Package settings models the public settings the backend exposes to
// unauthenticated clients.
package settings

// DefaultSiteName is shown until the backend provides a site name.
const DefaultSiteName = "Sub2API"

// Public is the public settings payload.
type Public struct {
	RegistrationEnabled bool   `json:"registration_enabled"`
	EmailVerifyEnabled  bool   `json:"email_verify_enabled"`
	TurnstileEnabled    bool   `json:"turnstile_enabled"`
	TurnstileSiteKey    string `json:"turnstile_site_key"`
	SiteName            string `json:"site_name"`
	SiteLogo            string `json:"site_logo"`
	SiteSubtitle        string `json:"site_subtitle"`
	APIBaseURL          string `json:"api_base_url"`
	ContactInfo         string `json:"contact_info"`
	DocURL              string `json:"doc_url"`
	Version             string `json:"version"`
	SimpleMode          bool   `json:"simple_mode"`
}

// View is the subset of Public projected into UI state.
type View struct {
	SiteName    string `json:"site_name"`
	SiteLogo    string `json:"site_logo"`
	SiteVersion string `json:"version"`
	ContactInfo string `json:"contact_info"`
	APIBaseURL  string `json:"api_base_url"`
	DocURL      string `json:"doc_url"`
	SimpleMode  bool   `json:"simple_mode"`
}

// Project extracts the view fields from p, substituting DefaultSiteName
// for an empty site name.
func Project(p Public) View {
	v := View{
		SiteName:    p.SiteName,
		SiteLogo:    p.SiteLogo,
		SiteVersion: p.Version,
		ContactInfo: p.ContactInfo,
		APIBaseURL:  p.APIBaseURL,
		DocURL:      p.DocURL,
		SimpleMode:  p.SimpleMode,
	}
	if v.SiteName == "" {
		v.SiteName = DefaultSiteName
	}
	return v
}

// Public rebuilds a payload from the view. Fields the view does not carry
// are left at their zero values.
func (v View) Public() Public {
	return Public{
		SiteName:    v.SiteName,
		SiteLogo:    v.SiteLogo,
		APIBaseURL:  v.APIBaseURL,
		ContactInfo: v.ContactInfo,
		DocURL:      v.DocURL,
		Version:     v.SiteVersion,
		SimpleMode:  v.SimpleMode,
	}
}
