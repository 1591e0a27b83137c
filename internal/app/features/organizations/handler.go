// internal/app/features/organizations/handler.go
package organizations

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	uierrors "github.com/arundhaj/broadgauge/internal/app/features/errors"
	orgstore "github.com/arundhaj/broadgauge/internal/app/store/organizations"
	userstore "github.com/arundhaj/broadgauge/internal/app/store/users"
	workshopstore "github.com/arundhaj/broadgauge/internal/app/store/workshops"
	"github.com/arundhaj/broadgauge/internal/app/system/authz"
	"github.com/arundhaj/broadgauge/internal/app/system/inputval"
	"github.com/arundhaj/broadgauge/internal/app/system/paging"
	"github.com/arundhaj/broadgauge/internal/app/system/timeouts"
	"github.com/arundhaj/broadgauge/internal/app/system/viewdata"
	"github.com/arundhaj/broadgauge/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	ErrLog     *uierrors.ErrorLogger
	Orgs       *orgstore.Store
	Users      *userstore.Store
	Workshops  *workshopstore.Store
	AdminEmail string
}

type workshopForm struct {
	Title                string `validate:"required,max=200" label:"Title"`
	Description          string `validate:"required,max=5000" label:"Description"`
	ExpectedParticipants string `validate:"required" label:"Expected participants"`
	Date                 string `validate:"required" label:"Date"`
}

type listPageData struct {
	viewdata.BaseVM
	Orgs    []models.Organization
	Start   int
	PrevURL string
	NextURL string
}

type detailPageData struct {
	viewdata.BaseVM
	Org       models.Organization
	AdminName string
	Workshops []models.Workshop
	IsAdmin   bool
}

type newWorkshopPageData struct {
	viewdata.BaseVM
	Org   models.Organization
	Form  workshopForm
	Error string
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, adminEmail string, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		ErrLog:     errLog,
		Orgs:       orgstore.New(db),
		Users:      userstore.New(db),
		Workshops:  workshopstore.New(db),
		AdminEmail: adminEmail,
	}
}

// ServeList handles GET /orgs. The list is paged with a 1-based "start"
// query parameter and one look-ahead row to detect a next page.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	start := paging.ParseStart(r)
	list, err := h.Orgs.ListPage(ctx, int64(start-1), paging.LimitPlusOne())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "organization list failed", err, "Loading organizations failed, please try again.", "/")
		return
	}

	page := paging.Trim(&list, start)
	data := listPageData{
		BaseVM: viewdata.NewBaseVM(r, "Organizations", "/"),
		Orgs:   list,
		Start:  start,
	}
	if page.HasNext {
		data.NextURL = fmt.Sprintf("/orgs?start=%d", start+paging.PageSize)
	}
	if page.HasPrev {
		data.PrevURL = fmt.Sprintf("/orgs?start=%d", paging.PrevStart(start))
	}

	templates.Render(w, r, "org_list", data)
}

// ServeDetail handles GET /orgs/{id}, showing the organization and its
// workshop history.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	org, ok := h.loadOrg(ctx, w, r)
	if !ok {
		return
	}

	workshops, err := h.Workshops.ListByOrg(ctx, org.ID, "")
	if err != nil {
		h.ErrLog.LogServerError(w, r, "workshop list failed", err, "Loading workshops failed, please try again.", "/orgs")
		return
	}

	var adminName string
	if admin, err := h.Users.GetByID(ctx, org.AdminID); err == nil {
		adminName = admin.Name
	}

	isAdmin := false
	if email := authz.Email(r); email != "" {
		isAdmin, err = h.Orgs.IsAdmin(ctx, org, email, h.AdminEmail)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "admin check failed", err, "Loading the organization failed, please try again.", "/orgs")
			return
		}
	}

	templates.Render(w, r, "org_detail", detailPageData{
		BaseVM:    viewdata.NewBaseVM(r, org.Name, "/orgs"),
		Org:       org,
		AdminName: adminName,
		Workshops: workshops,
		IsAdmin:   isAdmin,
	})
}

// ServeNewWorkshop handles GET /orgs/{id}/new-workshop.
func (h *Handler) ServeNewWorkshop(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	org, ok := h.loadOrg(ctx, w, r)
	if !ok {
		return
	}
	if !h.requireOrgAdmin(ctx, w, r, org) {
		return
	}

	templates.Render(w, r, "workshop_new", newWorkshopPageData{
		BaseVM: viewdata.NewBaseVM(r, "New workshop", "/orgs/"+org.ID.Hex()),
		Org:    org,
	})
}

// HandleNewWorkshop handles POST /orgs/{id}/new-workshop.
func (h *Handler) HandleNewWorkshop(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	org, ok := h.loadOrg(ctx, w, r)
	if !ok {
		return
	}
	if !h.requireOrgAdmin(ctx, w, r, org) {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/orgs/"+org.ID.Hex())
		return
	}

	form := workshopForm{
		Title:                strings.TrimSpace(r.FormValue("title")),
		Description:          strings.TrimSpace(r.FormValue("description")),
		ExpectedParticipants: strings.TrimSpace(r.FormValue("expected_participants")),
		Date:                 strings.TrimSpace(r.FormValue("date")),
	}

	errMsg := ""
	if res := inputval.Validate(form); res.HasErrors() {
		errMsg = res.First()
	}

	var participants int
	if errMsg == "" {
		var err error
		participants, err = strconv.Atoi(form.ExpectedParticipants)
		if err != nil || participants <= 0 {
			errMsg = "Expected participants must be a positive number."
		}
	}

	var date time.Time
	if errMsg == "" {
		var err error
		date, err = time.Parse("2006-01-02", form.Date)
		if err != nil {
			errMsg = "Date must be in yyyy-mm-dd form."
		}
	}

	if errMsg != "" {
		h.renderNewWorkshop(w, r, newWorkshopPageData{
			BaseVM: viewdata.NewBaseVM(r, "New workshop", "/orgs/"+org.ID.Hex()),
			Org:    org,
			Form:   form,
			Error:  errMsg,
		})
		return
	}

	workshop, err := h.Workshops.Create(ctx, models.Workshop{
		OrgID:                org.ID,
		Title:                form.Title,
		Description:          form.Description,
		ExpectedParticipants: participants,
		Date:                 date,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "workshop create failed", err, "Creating the workshop failed, please try again.", "/orgs/"+org.ID.Hex())
		return
	}

	h.Log.Info("workshop created",
		zap.String("workshop_id", workshop.ID.Hex()),
		zap.String("org_id", org.ID.Hex()))

	http.Redirect(w, r, "/workshops/"+workshop.ID.Hex(), http.StatusSeeOther)
}

// loadOrg resolves the {id} route param to an organization, rendering
// the not-found page when it cannot.
func (h *Handler) loadOrg(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Organization, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "Organization not found.", "/orgs")
		return models.Organization{}, false
	}

	org, err := h.Orgs.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		uierrors.RenderNotFound(w, r, "Organization not found.", "/orgs")
		return models.Organization{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "organization lookup failed", err, "Loading the organization failed, please try again.", "/orgs")
		return models.Organization{}, false
	}
	return org, true
}

// requireOrgAdmin sends non-admins back to the organization page. The
// denial is a plain redirect rather than a 403; the links that reach
// here are only shown to admins, so anyone else arrived by URL editing.
func (h *Handler) requireOrgAdmin(ctx context.Context, w http.ResponseWriter, r *http.Request, org models.Organization) bool {
	email := authz.Email(r)
	if email == "" {
		http.Redirect(w, r, "/orgs/"+org.ID.Hex(), http.StatusSeeOther)
		return false
	}

	isAdmin, err := h.Orgs.IsAdmin(ctx, org, email, h.AdminEmail)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin check failed", err, "Loading the organization failed, please try again.", "/orgs")
		return false
	}
	if !isAdmin {
		h.Log.Warn("non-admin attempted workshop creation",
			zap.String("org_id", org.ID.Hex()),
			zap.String("email", email))
		http.Redirect(w, r, "/orgs/"+org.ID.Hex(), http.StatusSeeOther)
		return false
	}
	return true
}

func (h *Handler) renderNewWorkshop(w http.ResponseWriter, r *http.Request, data newWorkshopPageData) {
	templates.Render(w, r, "workshop_new", data)
}
