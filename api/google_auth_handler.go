package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dermalens/backend/config"
	"github.com/dermalens/backend/models"
	"github.com/dermalens/backend/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func getOauthConfig() *oauth2.Config {
	return &oauth2.Config{
		RedirectURL:  config.GoogleRedirectURL,
		ClientID:     config.GoogleClientID,
		ClientSecret: config.GoogleClientSecret,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
		Endpoint:     google.Endpoint,
	}
}

// GoogleLoginHandler redirects to the Google consent screen
func GoogleLoginHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Google Login API]")

	oauthConfig := getOauthConfig()
	// State should be randomized for security in production
	url := oauthConfig.AuthCodeURL("random-state")

	utils.AddToLogMessage(&logMessageBuilder, "Redirecting to Google Auth")
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

type googleUserInfo struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleCallbackHandler exchanges the code, upserts the user and returns a token
func GoogleCallbackHandler(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Google Callback API]")

	state := r.FormValue("state")
	if state != "random-state" {
		utils.RespondError(w, &logMessageBuilder, "State invalid", http.StatusBadRequest)
		return
	}

	code := r.FormValue("code")
	if code == "" {
		utils.RespondError(w, &logMessageBuilder, "Code not found", http.StatusBadRequest)
		return
	}

	oauthConfig := getOauthConfig()
	token, err := oauthConfig.Exchange(context.Background(), code)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to exchange token: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + token.AccessToken)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to get user info: "+err.Error(), http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to read user info", http.StatusInternalServerError)
		return
	}

	var info googleUserInfo
	if err := json.Unmarshal(content, &info); err != nil || info.Email == "" {
		utils.RespondError(w, &logMessageBuilder, "Failed to parse user info", http.StatusInternalServerError)
		return
	}

	collection := utils.GetCollection(config.DBName, "users")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err = collection.FindOne(ctx, bson.M{"email": info.Email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		// First Google login, create the account as active.
		user = models.User{
			Name:         info.Name,
			Email:        info.Email,
			ProfileImage: info.Picture,
			Status:       "active",
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		res, insertErr := collection.InsertOne(ctx, user)
		if insertErr != nil {
			utils.RespondError(w, &logMessageBuilder, "Failed to create user", http.StatusInternalServerError)
			return
		}
		user.ID = res.InsertedID.(primitive.ObjectID)
		utils.AddToLogMessage(&logMessageBuilder, "Created new user from Google login")
	} else if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Database error", http.StatusInternalServerError)
		return
	}

	jwtToken, err := utils.GenerateToken(user.ID.Hex())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, "Google login successful")
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   jwtToken,
		"user":    user,
	})
}
