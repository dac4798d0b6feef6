package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authHTTP "github.com/skillboard/skillboard/internal/auth/http"
	"github.com/skillboard/skillboard/internal/skill/domain"
	"github.com/skillboard/skillboard/internal/skill/http/mocks"
	"github.com/skillboard/skillboard/internal/skill/usecase"
	userDomain "github.com/skillboard/skillboard/internal/user/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// newRouter wires the handler into a real gin engine so path parameters work.
func newRouter(handler *SkillHandler, user *userDomain.User) *gin.Engine {
	router := gin.New()

	withUser := func(c *gin.Context) {
		if user != nil {
			ctx := authHTTP.WithUser(c.Request.Context(), user)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}

	router.GET("/v1/skills", handler.ListHandler)
	router.GET("/v1/skills/:slug", handler.GetHandler)
	router.POST("/v1/skills/:slug/install", handler.InstallHandler)
	router.GET("/v1/leaderboard", handler.LeaderboardHandler)
	router.POST("/v1/skills", withUser, handler.CreateHandler)
	router.PUT("/v1/skills/:slug", withUser, handler.UpdateHandler)
	router.DELETE("/v1/skills/:slug", withUser, handler.DeleteHandler)

	return router
}

func doRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}
	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func publishedSkill() *domain.Skill {
	return &domain.Skill{
		ID:           uuid.Must(uuid.NewV7()),
		Slug:         "api-contract-testing",
		Name:         "API Contract Testing",
		Summary:      "Contract tests for REST APIs",
		Category:     "api",
		InstallCount: 42,
		Published:    true,
	}
}

func TestSkillHandler_ListHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockUseCase := new(mocks.MockSkillUseCase)
		handler := NewSkillHandler(mockUseCase, testLogger())

		mockUseCase.On("List", mock.Anything, "", 0, 50).Return([]*domain.Skill{publishedSkill()}, nil)

		w := doRequest(newRouter(handler, nil), http.MethodGet, "/v1/skills", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "api-contract-testing")
	})

	t.Run("Success_CategoryFilter", func(t *testing.T) {
		mockUseCase := new(mocks.MockSkillUseCase)
		handler := NewSkillHandler(mockUseCase, testLogger())

		mockUseCase.On("List", mock.Anything, "api", 10, 20).Return([]*domain.Skill{}, nil)

		w := doRequest(newRouter(handler, nil), http.MethodGet, "/v1/skills?category=api&offset=10&limit=20", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_InvalidPagination", func(t *testing.T) {
		mockUseCase := new(mocks.MockSkillUseCase)
		handler := NewSkillHandler(mockUseCase, testLogger())

		w := doRequest(newRouter(handler, nil), http.MethodGet, "/v1/skills?limit=9999", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSkillHandler_GetHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockUseCase := new(mocks.MockSkillUseCase)
		handler := NewSkillHandler(mockUseCase, testLogger())

		skill := publishedSkill()
		mockUseCase.On("GetBySlug", mock.Anything, "api-contract-testing").Return(skill, nil)

		w := doRequest(newRouter(handler, nil), http.MethodGet, "/v1/skills/api-contract-testing", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, skill.Slug, resp["slug"])
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		mockUseCase := new(mocks.MockSkillUseCase)
		handler := NewSkillHandler(mockUseCase, testLogger())

		mockUseCase.On("GetBySlug", mock.Anything, "missing").Return(nil, domain.ErrSkillNotFound)

		w := doRequest(newRouter(handler, nil), http.MethodGet, "/v1/skills/missing", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSkillHandler_InstallHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockUseCase := new(mocks.MockSkillUseCase)
		handler := NewSkillHandler(mockUseCase, testLogger())

		mockUseCase.On("Install", mock.Anything, "api-contract-testing").Return(nil)

		w := doRequest(newRouter(handler, nil), http.MethodPost, "/v1/skills/api-contract-testing/install", nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		mockUseCase := new(mocks.MockSkillUseCase)
		handler := NewSkillHandler(mockUseCase, testLogger())

		mockUseCase.On("Install", mock.Anything, "missing").Return(domain.ErrSkillNotFound)

		w := doRequest(newRouter(handler, nil), http.MethodPost, "/v1/skills/missing/install", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSkillHandler_LeaderboardHandler(t *testing.T) {
	t.Run("Success_DefaultLimit", func(t *testing.T) {
		mockUseCase := new(mocks.MockSkillUseCase)
		handler := NewSkillHandler(mockUseCase, testLogger())

		entries := []*domain.LeaderboardEntry{
			{Rank: 1, Slug: "top-skill", Name: "Top Skill", InstallCount: 100},
		}
		mockUseCase.On("Leaderboard", mock.Anything, defaultLeaderboardLimit).Return(entries, nil)

		w := doRequest(newRouter(handler, nil), http.MethodGet, "/v1/leaderboard", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "top-skill")
	})

	t.Run("Success_ExplicitLimit", func(t *testing.T) {
		mockUseCase := new(mocks.MockSkillUseCase)
		handler := NewSkillHandler(mockUseCase, testLogger())

		mockUseCase.On("Leaderboard", mock.Anything, 25).Return([]*domain.LeaderboardEntry{}, nil)

		w := doRequest(newRouter(handler, nil), http.MethodGet, "/v1/leaderboard?limit=25", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_LimitTooLarge", func(t *testing.T) {
		mockUseCase := new(mocks.MockSkillUseCase)
		handler := NewSkillHandler(mockUseCase, testLogger())

		w := doRequest(newRouter(handler, nil), http.MethodGet, "/v1/leaderboard?limit=500", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Leaderboard", mock.Anything, mock.Anything)
	})
}

func TestSkillHandler_CreateHandler(t *testing.T) {
	user := &userDomain.User{ID: uuid.Must(uuid.NewV7())}

	t.Run("Success", func(t *testing.T) {
		mockUseCase := new(mocks.MockSkillUseCase)
		handler := NewSkillHandler(mockUseCase, testLogger())

		skill := publishedSkill()
		skill.OwnerID = user.ID
		mockUseCase.On("Create", mock.Anything, user.ID, mock.MatchedBy(func(in usecase.CreateSkillInput) bool {
			return in.Slug == "api-contract-testing"
		})).Return(skill, nil)

		body := map[string]interface{}{
			"slug":     "api-contract-testing",
			"name":     "API Contract Testing",
			"summary":  "Contract tests for REST APIs",
			"category": "api",
		}
		w := doRequest(newRouter(handler, user), http.MethodPost, "/v1/skills", body)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Error_Unauthenticated", func(t *testing.T) {
		mockUseCase := new(mocks.MockSkillUseCase)
		handler := NewSkillHandler(mockUseCase, testLogger())

		w := doRequest(newRouter(handler, nil), http.MethodPost, "/v1/skills", map[string]interface{}{})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_SlugTaken", func(t *testing.T) {
		mockUseCase := new(mocks.MockSkillUseCase)
		handler := NewSkillHandler(mockUseCase, testLogger())

		mockUseCase.On("Create", mock.Anything, user.ID, mock.Anything).Return(nil, domain.ErrSlugTaken)

		body := map[string]interface{}{"slug": "taken", "name": "n", "summary": "s", "category": "api"}
		w := doRequest(newRouter(handler, user), http.MethodPost, "/v1/skills", body)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestSkillHandler_UpdateHandler(t *testing.T) {
	user := &userDomain.User{ID: uuid.Must(uuid.NewV7())}

	t.Run("Success", func(t *testing.T) {
		mockUseCase := new(mocks.MockSkillUseCase)
		handler := NewSkillHandler(mockUseCase, testLogger())

		skill := publishedSkill()
		mockUseCase.On("Update", mock.Anything, user.ID, "api-contract-testing", mock.Anything).Return(skill, nil)

		body := map[string]interface{}{"name": "Renamed", "summary": "s", "category": "api"}
		w := doRequest(newRouter(handler, user), http.MethodPut, "/v1/skills/api-contract-testing", body)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_NotOwner", func(t *testing.T) {
		mockUseCase := new(mocks.MockSkillUseCase)
		handler := NewSkillHandler(mockUseCase, testLogger())

		mockUseCase.On("Update", mock.Anything, user.ID, "api-contract-testing", mock.Anything).
			Return(nil, domain.ErrNotOwner)

		body := map[string]interface{}{"name": "Renamed", "summary": "s", "category": "api"}
		w := doRequest(newRouter(handler, user), http.MethodPut, "/v1/skills/api-contract-testing", body)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestSkillHandler_DeleteHandler(t *testing.T) {
	user := &userDomain.User{ID: uuid.Must(uuid.NewV7())}

	t.Run("Success", func(t *testing.T) {
		mockUseCase := new(mocks.MockSkillUseCase)
		handler := NewSkillHandler(mockUseCase, testLogger())

		mockUseCase.On("Delete", mock.Anything, user.ID, "api-contract-testing").Return(nil)

		w := doRequest(newRouter(handler, user), http.MethodDelete, "/v1/skills/api-contract-testing", nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		mockUseCase := new(mocks.MockSkillUseCase)
		handler := NewSkillHandler(mockUseCase, testLogger())

		mockUseCase.On("Delete", mock.Anything, user.ID, "missing").Return(domain.ErrSkillNotFound)

		w := doRequest(newRouter(handler, user), http.MethodDelete, "/v1/skills/missing", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
