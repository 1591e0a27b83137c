// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"
	"sync"

	"github.com/arundhaj/broadgauge/internal/app/system/auth"
	"github.com/arundhaj/broadgauge/internal/app/system/authz"
	"github.com/dalemusser/waffle/pantry/httpnav"
)

// DefaultSiteTitle is used until Init runs with the configured title.
const DefaultSiteTitle = "Broad Gauge"

var (
	mu        sync.RWMutex
	siteTitle = DefaultSiteTitle
)

// Init sets the configured site title once at startup.
func Init(title string) {
	mu.Lock()
	defer mu.Unlock()
	if title != "" {
		siteTitle = title
	}
}

// SiteTitle returns the configured site title.
func SiteTitle() string {
	mu.RLock()
	defer mu.RUnlock()
	return siteTitle
}

// BaseVM contains common fields for all view models. Embed it in
// feature-specific view models.
type BaseVM struct {
	SiteTitle string

	IsLoggedIn bool
	UserName   string
	UserEmail  string

	Title       string
	BackURL     string
	CurrentPath string

	Flashes []auth.FlashMessage
}

// NewBaseVM creates a populated BaseVM for a page.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	email, name, signedIn := authz.UserCtx(r)
	return BaseVM{
		SiteTitle:   SiteTitle(),
		IsLoggedIn:  signedIn,
		UserName:    name,
		UserEmail:   email,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
	}
}
