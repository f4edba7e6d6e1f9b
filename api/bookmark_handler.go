package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dermalens/backend/config"
	"github.com/dermalens/backend/models"
	"github.com/dermalens/backend/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateBookmarkRequest represents the payload for saving a product
type CreateBookmarkRequest struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Brand     string  `json:"brand"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Reason    string  `json:"reason"`
	Image     string  `json:"image"`
	SourceURL string  `json:"url"`
}

// BookmarkListResponse represents the paginated bookmark listing
type BookmarkListResponse struct {
	Bookmarks   []models.Bookmark `json:"bookmarks"`
	Total       int64             `json:"total"`
	CurrentPage int               `json:"current_page"`
	TotalPages  int               `json:"total_pages"`
}

// BookmarksHandler dispatches POST (create) and GET (list) on /bookmarks
func BookmarksHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		createBookmark(w, r)
	case http.MethodGet:
		listBookmarks(w, r)
	default:
		utils.RespondError(w, nil, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func createBookmark(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Create Bookmark API]")

	userIDStr, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid user ID", http.StatusUnauthorized)
		return
	}

	var req CreateBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		utils.RespondError(w, &logMessageBuilder, "Product name is required", http.StatusBadRequest)
		return
	}

	collection := utils.GetCollection(config.DBName, "bookmarks")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// One bookmark per product per user.
	if req.ProductID != "" {
		count, err := collection.CountDocuments(ctx, bson.M{"user_id": userID, "product_id": req.ProductID})
		if err == nil && count > 0 {
			utils.RespondError(w, &logMessageBuilder, "Product already bookmarked", http.StatusConflict)
			return
		}
	}

	bookmark := models.Bookmark{
		UserID:    userID,
		ProductID: req.ProductID,
		Name:      req.Name,
		Brand:     req.Brand,
		Category:  req.Category,
		Price:     req.Price,
		Reason:    req.Reason,
		Image:     req.Image,
		SourceURL: req.SourceURL,
		CreatedAt: time.Now(),
	}

	res, err := collection.InsertOne(ctx, bookmark)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to save bookmark", http.StatusInternalServerError)
		return
	}
	bookmark.ID = res.InsertedID.(primitive.ObjectID)

	utils.AddToLogMessage(&logMessageBuilder, "Bookmark created")
	utils.RespondJSON(w, http.StatusCreated, bookmark)
}

func listBookmarks(w http.ResponseWriter, r *http.Request) {
	userIDStr, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		utils.RespondError(w, nil, "Invalid user ID", http.StatusUnauthorized)
		return
	}

	page := 1
	limit := 10
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 {
		limit = l
	}

	collection := utils.GetCollection(config.DBName, "bookmarks")
	filter := bson.M{"user_id": userID}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		utils.RespondError(w, nil, "Failed to fetch bookmarks", http.StatusInternalServerError)
		return
	}

	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}}) // Show latest first
	findOptions.SetSkip(int64((page - 1) * limit))
	findOptions.SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, filter, findOptions)
	if err != nil {
		utils.RespondError(w, nil, "Failed to fetch bookmarks", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var bookmarks []models.Bookmark
	if err = cursor.All(ctx, &bookmarks); err != nil {
		utils.RespondError(w, nil, "Failed to decode bookmarks", http.StatusInternalServerError)
		return
	}

	// Mirrored images are stored as S3 keys and need presigning.
	images := make([]string, len(bookmarks))
	for i := range bookmarks {
		images[i] = bookmarks[i].Image
	}
	for i, img := range utils.PresignImageURLs(r.Context(), images) {
		bookmarks[i].Image = img
	}

	// Ensure empty slice is returned as [] instead of null
	if bookmarks == nil {
		bookmarks = []models.Bookmark{}
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	utils.RespondJSON(w, http.StatusOK, BookmarkListResponse{
		Bookmarks:   bookmarks,
		Total:       total,
		CurrentPage: page,
		TotalPages:  totalPages,
	})
}

// DeleteBookmarkHandler handles DELETE /bookmarks/{id}
func DeleteBookmarkHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		utils.RespondError(w, nil, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userIDStr, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, nil, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		utils.RespondError(w, nil, "Invalid user ID", http.StatusUnauthorized)
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/bookmarks/")
	bookmarkID, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		utils.RespondError(w, nil, "Invalid bookmark ID", http.StatusBadRequest)
		return
	}

	collection := utils.GetCollection(config.DBName, "bookmarks")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Scope the delete to the owner so users can't remove each other's bookmarks.
	res, err := collection.DeleteOne(ctx, bson.M{"_id": bookmarkID, "user_id": userID})
	if err != nil {
		utils.RespondError(w, nil, "Failed to delete bookmark", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondError(w, nil, "Bookmark not found", http.StatusNotFound)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "Bookmark deleted"})
}
