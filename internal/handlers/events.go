package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/eventgrove/eventgrove/internal/auth"
	"github.com/eventgrove/eventgrove/internal/models"
	"github.com/eventgrove/eventgrove/internal/store"
	"github.com/eventgrove/eventgrove/internal/timerange"
)

// RegisterEventRoutes registers the event endpoints. All of them require an
// authenticated caller; the auth middleware runs on the enclosing group.
//
//	POST   /events          create
//	GET    /events          browse with ?search= and ?filter=
//	GET    /events/my       caller's own events
//	PUT    /events/:id      partial update, owner only
//	DELETE /events/:id      owner only
//	POST   /events/:id/join idempotent-rejecting membership
func RegisterEventRoutes(r gin.IRoutes, st store.Store) {
	r.POST("/events", func(c *gin.Context) {
		caller := auth.CurrentUser(c)

		var req models.CreateEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}

		req.Title = strings.TrimSpace(req.Title)
		req.Location = strings.TrimSpace(req.Location)
		if req.Title == "" || req.Location == "" || req.Description == "" ||
			req.DateTime == nil || req.DateTime.IsZero() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "please fill all fields"})
			return
		}

		event := store.Event{
			Title:        req.Title,
			PostedByName: caller.Name,
			OwnerID:      caller.ID,
			StartTime:    *req.DateTime,
			Location:     req.Location,
			Description:  req.Description,
		}
		if err := st.CreateEvent(c.Request.Context(), &event); err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusCreated, event)
	})

	r.GET("/events", func(c *gin.Context) {
		filter := store.EventFilter{TitleSearch: c.Query("search")}

		// An unrecognized tag applies no date filter, matching the
		// behavior clients already rely on.
		if tag := c.Query("filter"); tag != "" {
			from, to, ok := timerange.Window(tag, time.Now())
			if ok {
				filter.From, filter.To = from, to
			} else {
				log.WithField("filter", tag).Debug("ignoring unrecognized date filter")
			}
		}

		events, err := st.ListEvents(c.Request.Context(), filter)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, events)
	})

	r.GET("/events/my", func(c *gin.Context) {
		caller := auth.CurrentUser(c)

		events, err := st.ListEventsByOwner(c.Request.Context(), caller.ID)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, events)
	})

	r.PUT("/events/:id", func(c *gin.Context) {
		caller := auth.CurrentUser(c)

		var req models.UpdateEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}

		patch := store.EventPatch{
			Title:       req.Title,
			StartTime:   req.DateTime,
			Location:    req.Location,
			Description: req.Description,
		}
		event, err := st.UpdateEvent(c.Request.Context(), c.Param("id"), caller.ID, patch)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, event)
	})

	r.DELETE("/events/:id", func(c *gin.Context) {
		caller := auth.CurrentUser(c)

		if err := st.DeleteEvent(c.Request.Context(), c.Param("id"), caller.ID); err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "event deleted"})
	})

	r.POST("/events/:id/join", func(c *gin.Context) {
		caller := auth.CurrentUser(c)

		count, err := st.JoinEvent(c.Request.Context(), c.Param("id"), caller.ID)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.JoinEventResponse{
			Message:       "joined event",
			AttendeeCount: count,
		})
	})
}

// writeStoreError maps store error kinds to status codes. Unexpected
// failures are logged server-side and answered with a generic message.
func writeStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
	case errors.Is(err, store.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized"})
	case errors.Is(err, store.ErrAlreadyJoined):
		c.JSON(http.StatusBadRequest, gin.H{"error": "you already joined this event"})
	default:
		log.WithError(err).Error("store operation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
	}
}
