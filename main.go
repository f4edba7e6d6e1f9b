package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/dermalens/backend/analysis"
	"github.com/dermalens/backend/api"
	"github.com/dermalens/backend/config"
	"github.com/dermalens/backend/pipeline"
	"github.com/dermalens/backend/recommend"
	"github.com/dermalens/backend/rembg"
	"github.com/dermalens/backend/scrapers/imagesearch"
	"github.com/dermalens/backend/scrapers/lookfantastic"
	"github.com/dermalens/backend/store"
	"github.com/dermalens/backend/utils"
)

func main() {
	config.LoadConfig()

	// Initialize MongoDB
	if err := utils.ConnectMongo(config.MongoURI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	// Image resolution pipeline
	retailer := lookfantastic.New()
	retailer.Fetcher.BrowserFetch = config.BrowserFetch
	search := imagesearch.New()

	breaker := rembg.NewBreaker()
	bgClient := rembg.NewClient(config.RembgServiceURL, breaker)

	imageStore := store.NewImageStore(config.ProductImageDir)
	if config.AWSBucketName != "" {
		imageStore.S3Mirror = true
	}

	resolver := pipeline.NewResolver(retailer, search, bgClient, imageStore)

	// Recommendation flow
	dataset, err := recommend.LoadDataset(config.DatasetPath)
	if err != nil {
		log.Printf("Failed to load skincare dataset from %s: %v (skin prompts will run without dataset grounding)", config.DatasetPath, err)
	}

	analyzeHandler := &api.AnalyzeHandler{
		Skin:        analysis.NewSimulated(),
		Hair:        analysis.NewSimulated(),
		Recommender: recommend.NewRecommender(config.GeminiAPIKey),
		Dataset:     dataset,
		Resolver:    resolver,
	}

	// Auth routes
	http.HandleFunc("/auth/signup", api.CORSMiddleware(api.SignupHandler))
	http.HandleFunc("/auth/verify-otp", api.CORSMiddleware(api.VerifyOTPHandler))
	http.HandleFunc("/auth/login", api.CORSMiddleware(api.LoginHandler))
	http.HandleFunc("/auth/forgot-password", api.CORSMiddleware(api.ForgotPasswordHandler))
	http.HandleFunc("/auth/reset-password", api.CORSMiddleware(api.ResetPasswordHandler))
	http.HandleFunc("/auth/google/login", api.CORSMiddleware(api.GoogleLoginHandler))
	http.HandleFunc("/auth/google/callback", api.CORSMiddleware(api.GoogleCallbackHandler))

	// Authenticated routes
	http.HandleFunc("/me", api.CORSMiddleware(api.AuthMiddleware(api.MeHandler)))
	http.HandleFunc("/profile/image", api.CORSMiddleware(api.AuthMiddleware(api.ProfileImageHandler)))
	http.HandleFunc("/analyze/skin", api.CORSMiddleware(api.AuthMiddleware(analyzeHandler.AnalyzeSkin)))
	http.HandleFunc("/analyze/hair", api.CORSMiddleware(api.AuthMiddleware(analyzeHandler.AnalyzeHair)))
	http.HandleFunc("/bookmarks", api.CORSMiddleware(api.AuthMiddleware(api.BookmarksHandler)))
	http.HandleFunc("/bookmarks/", api.CORSMiddleware(api.AuthMiddleware(api.DeleteBookmarkHandler)))

	http.HandleFunc("/health", api.CORSMiddleware(api.HealthHandler(bgClient)))

	// Serve static files for images
	http.Handle("/product_images/", http.StripPrefix("/product_images/", http.FileServer(http.Dir(config.ProductImageDir))))
	http.Handle("/user_images/", http.StripPrefix("/user_images/", http.FileServer(http.Dir(config.UserImageDir))))

	port := config.Port
	fmt.Printf("Server starting on port %s...\n", port)
	if err := http.ListenAndServe(":"+port, utils.LatencyMiddleware(http.DefaultServeMux)); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
