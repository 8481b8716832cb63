package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/az00102/EpicEscape-Server/internal/model"
	"github.com/az00102/EpicEscape-Server/internal/repository"
)

// Stories

func (s *Server) handleListStories(w http.ResponseWriter, r *http.Request) {
	stories, err := s.store.ListStories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "failed to list stories")
		return
	}
	writeJSON(w, http.StatusOK, stories)
}

func (s *Server) handleGetStory(w http.ResponseWriter, r *http.Request) {
	storyID, err := parseObjectID(chi.URLParam(r, "storyId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "story id is not a valid identifier")
		return
	}
	story, err := s.store.GetStory(r.Context(), storyID)
	if err != nil {
		writeStoreError(w, err, "story_not_found", "no story with this id")
		return
	}
	writeJSON(w, http.StatusOK, story)
}

type createStoryRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Images  []string `json:"images"`
}

func (s *Server) handleCreateStory(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token", "authorization header required")
		return
	}
	var req createStoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "body must be a JSON object")
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "missing_fields", "title and content are required")
		return
	}

	story := model.Story{
		Title:       req.Title,
		Content:     req.Content,
		Images:      req.Images,
		AuthorEmail: claims.Email,
		CreatedAt:   time.Now().UTC(),
	}
	if author, err := s.store.GetUserByEmail(r.Context(), claims.Email); err == nil {
		story.AuthorName = author.Name
	}
	id, err := s.store.CreateStory(r.Context(), story)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "failed to create story")
		return
	}
	story.ID = id
	writeJSON(w, http.StatusCreated, story)
}

type updateStoryRequest struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Images  *[]string `json:"images"`
}

func (s *Server) handleUpdateStory(w http.ResponseWriter, r *http.Request) {
	story, ok := s.authorizeStoryMutation(w, r)
	if !ok {
		return
	}
	var req updateStoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "body must be a JSON object")
		return
	}
	if req.Title == nil && req.Content == nil && req.Images == nil {
		writeError(w, http.StatusBadRequest, "empty_update", "no fields to update")
		return
	}
	update := repository.StoryUpdate{
		Title:   req.Title,
		Content: req.Content,
		Images:  req.Images,
	}
	if err := s.store.UpdateStory(r.Context(), story.ID, update); err != nil {
		writeStoreError(w, err, "story_not_found", "no story with this id")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteStory(w http.ResponseWriter, r *http.Request) {
	story, ok := s.authorizeStoryMutation(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteStory(r.Context(), story.ID); err != nil {
		writeStoreError(w, err, "story_not_found", "no story with this id")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// authorizeStoryMutation loads the story and enforces the author-or-admin
// rule. It writes the error response itself when the check fails.
func (s *Server) authorizeStoryMutation(w http.ResponseWriter, r *http.Request) (model.Story, bool) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token", "authorization header required")
		return model.Story{}, false
	}
	storyID, err := parseObjectID(chi.URLParam(r, "storyId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "story id is not a valid identifier")
		return model.Story{}, false
	}
	story, err := s.store.GetStory(r.Context(), storyID)
	if err != nil {
		writeStoreError(w, err, "story_not_found", "no story with this id")
		return model.Story{}, false
	}
	if !strings.EqualFold(story.AuthorEmail, claims.Email) && !s.isAdmin(r.Context(), claims.Email) {
		writeError(w, http.StatusForbidden, "forbidden", "cannot modify another identity's story")
		return model.Story{}, false
	}
	return story, true
}

// Community posts

func (s *Server) handleListCommunityPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.ListCommunityPosts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "failed to list community posts")
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

type createCommunityPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (s *Server) handleCreateCommunityPost(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token", "authorization header required")
		return
	}
	var req createCommunityPostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "body must be a JSON object")
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "missing_fields", "title and content are required")
		return
	}

	post := model.CommunityPost{
		Title:       req.Title,
		Content:     req.Content,
		AuthorEmail: claims.Email,
		CreatedAt:   time.Now().UTC(),
	}
	if author, err := s.store.GetUserByEmail(r.Context(), claims.Email); err == nil {
		post.AuthorName = author.Name
	}
	id, err := s.store.CreateCommunityPost(r.Context(), post)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "failed to create community post")
		return
	}
	post.ID = id
	writeJSON(w, http.StatusCreated, post)
}

// Blog posts

func (s *Server) handleListBlogPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.store.ListBlogPosts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "failed to list blog posts")
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleGetBlogPost(w http.ResponseWriter, r *http.Request) {
	blogID, err := parseObjectID(chi.URLParam(r, "blogId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "blog id is not a valid identifier")
		return
	}
	post, err := s.store.GetBlogPost(r.Context(), blogID)
	if err != nil {
		writeStoreError(w, err, "blog_not_found", "no blog post with this id")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

type createBlogPostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	CoverURL string `json:"coverURL"`
}

func (s *Server) handleCreateBlogPost(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token", "authorization header required")
		return
	}
	var req createBlogPostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "body must be a JSON object")
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "missing_fields", "title and content are required")
		return
	}

	post := model.BlogPost{
		Title:     req.Title,
		Content:   req.Content,
		CoverURL:  req.CoverURL,
		CreatedAt: time.Now().UTC(),
	}
	if author, err := s.store.GetUserByEmail(r.Context(), claims.Email); err == nil {
		post.AuthorName = author.Name
	}
	id, err := s.store.CreateBlogPost(r.Context(), post)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "failed to create blog post")
		return
	}
	post.ID = id
	writeJSON(w, http.StatusCreated, post)
}

type updateBlogPostRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	CoverURL *string `json:"coverURL"`
}

func (s *Server) handleUpdateBlogPost(w http.ResponseWriter, r *http.Request) {
	blogID, err := parseObjectID(chi.URLParam(r, "blogId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "blog id is not a valid identifier")
		return
	}
	var req updateBlogPostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "body must be a JSON object")
		return
	}
	if req.Title == nil && req.Content == nil && req.CoverURL == nil {
		writeError(w, http.StatusBadRequest, "empty_update", "no fields to update")
		return
	}
	update := repository.BlogUpdate{
		Title:    req.Title,
		Content:  req.Content,
		CoverURL: req.CoverURL,
	}
	if err := s.store.UpdateBlogPost(r.Context(), blogID, update); err != nil {
		writeStoreError(w, err, "blog_not_found", "no blog post with this id")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteBlogPost(w http.ResponseWriter, r *http.Request) {
	blogID, err := parseObjectID(chi.URLParam(r, "blogId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "blog id is not a valid identifier")
		return
	}
	if err := s.store.DeleteBlogPost(r.Context(), blogID); err != nil {
		writeStoreError(w, err, "blog_not_found", "no blog post with this id")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
