package delivery

import (
	"errors"
	"net/http"

	"product_manager/internal/domain"
	"product_manager/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const SessionCookie = "pm_session"

// ManagerHandler serves the manager view. Every form posts back here and is
// answered with a redirect to the page, so a browser reload never resubmits.
type ManagerHandler struct {
	sessions *usecase.Sessions
	title    string
	log      *logrus.Logger
}

func NewManagerHandler(sessions *usecase.Sessions, title string, logger *logrus.Logger) *ManagerHandler {
	return &ManagerHandler{
		sessions: sessions,
		title:    title,
		log:      logger,
	}
}

func (h *ManagerHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/", h.ShowManager)
	router.POST("/search", h.Search)
	router.POST("/products", h.CreateProduct)
	router.POST("/products/:id/edit", h.StartEdit)
	router.POST("/products/:id", h.SaveEdit)
	router.POST("/products/:id/delete", h.DeleteProduct)
	router.POST("/cancel", h.CancelEdit)
}

// manager resolves the caller's session. A new session is loaded before it is
// used, the same as mounting the view.
func (h *ManagerHandler) manager(c *gin.Context) (*usecase.Manager, bool) {
	id, _ := c.Cookie(SessionCookie)
	m, newID, created := h.sessions.Get(id)
	if created {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, newID, 0, "/", "", false, true)
		if err := m.Load(c.Request.Context()); err != nil {
			h.log.WithField("handler", "manager").Warnf("Initial load for new session failed: %v", err)
		}
	}
	return m, created
}

func (h *ManagerHandler) backToPage(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *ManagerHandler) ShowManager(c *gin.Context) {
	handlerLogger := h.log.WithField("handler", "ShowManager")
	m, created := h.manager(c)

	if c.Query("reload") == "1" && !created {
		if err := m.Reset(c.Request.Context()); err != nil {
			handlerLogger.Warnf("Reload failed, rendering the previous list: %v", err)
		}
	}

	notice := m.TakeNotice()
	c.HTML(http.StatusOK, "manager.html", gin.H{
		"Title":  h.title,
		"State":  m.Snapshot(),
		"Notice": notice,
	})
}

func (h *ManagerHandler) Search(c *gin.Context) {
	m, _ := h.manager(c)
	m.SetSearch(c.PostForm("keyword"))
	if err := m.Search(c.Request.Context()); err != nil {
		h.log.WithField("handler", "Search").Warnf("Search failed: %v", err)
	}
	h.backToPage(c)
}

// bindDraft binds the posted form into the session draft. On a bind failure
// the draft is still kept so the user does not lose what was typed.
func (h *ManagerHandler) bindDraft(c *gin.Context, m *usecase.Manager, handlerLogger *logrus.Entry) bool {
	var form domain.ProductForm
	if err := c.ShouldBind(&form); err != nil {
		fields := FromBindError(err, &form)
		handlerLogger.Warnf("Failed to bind product form: %v", fields)
		m.SetDraft(form)
		m.Notify(fields.Notice())
		return false
	}
	m.SetDraft(form)
	return true
}

func (h *ManagerHandler) CreateProduct(c *gin.Context) {
	handlerLogger := h.log.WithField("handler", "CreateProduct")
	m, _ := h.manager(c)

	if !h.bindDraft(c, m, handlerLogger) {
		h.backToPage(c)
		return
	}
	if err := m.Create(c.Request.Context()); err != nil {
		handlerLogger.Warnf("Create failed: %v", err)
	}
	h.backToPage(c)
}

func (h *ManagerHandler) StartEdit(c *gin.Context) {
	m, _ := h.manager(c)
	id := c.Param("id")
	if err := m.StartEdit(id); err != nil {
		h.log.WithField("handler", "StartEdit").Warnf("Cannot edit product ID %s: %v", id, err)
	}
	h.backToPage(c)
}

func (h *ManagerHandler) SaveEdit(c *gin.Context) {
	handlerLogger := h.log.WithField("handler", "SaveEdit")
	m, _ := h.manager(c)
	id := c.Param("id")

	// A form posted from an older page can name a product this session is
	// not editing; switch to it first.
	if m.Snapshot().EditingID != id {
		if err := m.StartEdit(id); err != nil {
			handlerLogger.Warnf("Cannot edit product ID %s: %v", id, err)
			h.backToPage(c)
			return
		}
	}

	if !h.bindDraft(c, m, handlerLogger) {
		h.backToPage(c)
		return
	}
	if err := m.SaveEdit(c.Request.Context()); err != nil {
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			handlerLogger.Warnf("Update of product ID %s failed: %v", id, err)
		}
	}
	h.backToPage(c)
}

func (h *ManagerHandler) DeleteProduct(c *gin.Context) {
	m, _ := h.manager(c)
	id := c.Param("id")
	if err := m.Delete(c.Request.Context(), id); err != nil {
		h.log.WithField("handler", "DeleteProduct").Warnf("Delete of product ID %s failed: %v", id, err)
	}
	h.backToPage(c)
}

func (h *ManagerHandler) CancelEdit(c *gin.Context) {
	m, _ := h.manager(c)
	m.CancelEdit()
	h.backToPage(c)
}

// Health reports liveness and the number of open sessions.
func (h *ManagerHandler) Health(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "ok", gin.H{"sessions": h.sessions.Len()})
}
