package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"minuteshub/internal/fault"
	"minuteshub/internal/model"
	"minuteshub/internal/service"
)

type memoryMeetingStore struct {
	nextID   int
	meetings map[int]*model.Meeting
}

func (s *memoryMeetingStore) Create(ctx context.Context, m *model.Meeting) (*model.Meeting, error) {
	s.nextID++
	m.ID = s.nextID
	cp := *m
	s.meetings[m.ID] = &cp
	return m, nil
}

func (s *memoryMeetingStore) Update(ctx context.Context, m *model.Meeting) (*model.Meeting, error) {
	if _, ok := s.meetings[m.ID]; !ok {
		return nil, fault.NotFound("meeting not found")
	}
	cp := *m
	s.meetings[m.ID] = &cp
	return m, nil
}

func (s *memoryMeetingStore) GetByID(ctx context.Context, id int) (*model.Meeting, error) {
	m, ok := s.meetings[id]
	if !ok {
		return nil, fault.NotFound("meeting not found")
	}
	cp := *m
	return &cp, nil
}

func (s *memoryMeetingStore) List(ctx context.Context) ([]model.Meeting, error) {
	out := []model.Meeting{}
	for _, m := range s.meetings {
		out = append(out, *m)
	}
	return out, nil
}

func (s *memoryMeetingStore) Delete(ctx context.Context, id int) (bool, error) {
	if _, ok := s.meetings[id]; !ok {
		return false, nil
	}
	delete(s.meetings, id)
	return true, nil
}

type MeetingHandlerTestSuite struct {
	suite.Suite

	store  *memoryMeetingStore
	router *gin.Engine
}

func (s *MeetingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	s.store = &memoryMeetingStore{meetings: map[int]*model.Meeting{}}
	h := NewMeetingHandler(service.NewMeetingService(s.store, zap.NewNop()))

	s.router = gin.New()
	api := s.router.Group("/api")
	api.GET("/meetings", h.List)
	api.POST("/meetings", h.Create)
	api.GET("/meetings/:id", h.Get)
	api.PATCH("/meetings/:id", h.Patch)
	api.DELETE("/meetings/:id", h.Delete)
	api.POST("/meetings/:id/actions", h.AddActionItem)
	api.POST("/meetings/:id/actions/:itemID/toggle", h.ToggleActionItem)
}

func TestMeetingHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(MeetingHandlerTestSuite))
}

func (s *MeetingHandlerTestSuite) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *MeetingHandlerTestSuite) TestCreateAndGet() {
	w := s.do(http.MethodPost, "/api/meetings", `{"title":"Standup","tags":["daily"]}`)
	s.Equal(http.StatusCreated, w.Code)

	var created model.Meeting
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))
	s.NotZero(created.ID)

	w = s.do(http.MethodGet, "/api/meetings/1", "")
	s.Equal(http.StatusOK, w.Code)
}

func (s *MeetingHandlerTestSuite) TestCreate_MissingTitleIs400WithFields() {
	w := s.do(http.MethodPost, "/api/meetings", `{"title":""}`)

	s.Equal(http.StatusBadRequest, w.Code)

	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Contains(resp.Fields, "title")
}

func (s *MeetingHandlerTestSuite) TestGet_UnknownIDIs404() {
	w := s.do(http.MethodGet, "/api/meetings/99", "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *MeetingHandlerTestSuite) TestGet_NonIntegerIDIs400() {
	w := s.do(http.MethodGet, "/api/meetings/abc", "")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *MeetingHandlerTestSuite) TestPatch_ShallowMerge() {
	s.do(http.MethodPost, "/api/meetings", `{"title":"Planning","notes":"keep me"}`)

	w := s.do(http.MethodPatch, "/api/meetings/1", `{"summary":"done"}`)
	s.Equal(http.StatusOK, w.Code)

	var m model.Meeting
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &m))
	s.Equal("done", m.Summary)
	s.Equal("Planning", m.Title)
	s.Equal("keep me", m.Notes)
}

func (s *MeetingHandlerTestSuite) TestDelete() {
	s.do(http.MethodPost, "/api/meetings", `{"title":"One-off"}`)

	w := s.do(http.MethodDelete, "/api/meetings/1", "")
	s.Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodDelete, "/api/meetings/1", "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *MeetingHandlerTestSuite) TestActionItemLifecycle() {
	s.do(http.MethodPost, "/api/meetings", `{"title":"Planning"}`)

	w := s.do(http.MethodPost, "/api/meetings/1/actions", `{"text":"send minutes","assignee":"alex"}`)
	s.Equal(http.StatusCreated, w.Code)

	var item model.ActionItem
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &item))
	s.NotEmpty(item.ID)

	w = s.do(http.MethodPost, "/api/meetings/1/actions/"+item.ID+"/toggle", "")
	s.Equal(http.StatusOK, w.Code)

	var toggled model.ActionItem
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &toggled))
	s.True(toggled.Completed)
	s.Equal(item.ID, toggled.ID)
}

func (s *MeetingHandlerTestSuite) TestToggle_UnknownItemIs404() {
	s.do(http.MethodPost, "/api/meetings", `{"title":"Planning"}`)

	w := s.do(http.MethodPost, "/api/meetings/1/actions/nope/toggle", "")
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *MeetingHandlerTestSuite) TestList_SearchQuery() {
	s.do(http.MethodPost, "/api/meetings", `{"title":"Budget Review"}`)
	s.do(http.MethodPost, "/api/meetings", `{"title":"Retro"}`)

	w := s.do(http.MethodGet, "/api/meetings?q=budget", "")
	s.Equal(http.StatusOK, w.Code)

	var meetings []model.Meeting
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &meetings))
	s.Len(meetings, 1)
	s.Equal("Budget Review", meetings[0].Title)
}
