package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dermalens/backend/config"
	"github.com/dermalens/backend/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// saveUploadedImage writes a multipart file into dir with a timestamped name
// and returns the relative path.
func saveUploadedImage(fileHeader *multipart.FileHeader, dir string) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("error retrieving file: %w", err)
	}
	defer file.Close()

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("error creating upload directory: %w", err)
		}
	}

	filename := fmt.Sprintf("%d_%s", time.Now().UnixNano(), fileHeader.Filename)
	filePath := filepath.Join(dir, filename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("error saving file content: %w", err)
	}

	return filePath, nil
}

// ProfileImageHandler handles POST /profile/image, updating the user's
// profile picture.
func ProfileImageHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Profile Image API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

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

	// Parse multipart form (max 10MB)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Error parsing form data", http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		utils.RespondError(w, &logMessageBuilder, "Image file is required", http.StatusBadRequest)
		return
	}

	imagePath, err := saveUploadedImage(files[0], config.UserImageDir)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, err.Error())
		utils.RespondError(w, &logMessageBuilder, "Failed to save image", http.StatusInternalServerError)
		return
	}

	collection := utils.GetCollection(config.DBName, "users")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.UpdateOne(ctx, bson.M{"_id": userID},
		bson.M{"$set": bson.M{"profile_image": imagePath, "updated_at": time.Now()}}); err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Profile image updated")
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message":       "Profile image updated",
		"profile_image": imagePath,
	})
}
