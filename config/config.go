package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

const DBName = "dermalens"

var (
	MongoURI           string
	Port               string
	GeminiAPIKey       string
	RembgServiceURL    string
	ProductImageDir    string
	UserImageDir       string
	DatasetPath        string
	AWSBucketName      string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	BrowserFetch       bool
)

// LoadConfig loads environment variables from .env file
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values or system environment variables")
	}

	MongoURI = os.Getenv("MONGO_URI")
	if MongoURI == "" {
		MongoURI = "mongodb://localhost:27017/"
	}

	Port = os.Getenv("PORT")
	if Port == "" {
		Port = "8080"
	}

	GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	RembgServiceURL = os.Getenv("REMBG_SERVICE_URL")
	if RembgServiceURL == "" {
		// The removal service runs on 5001 to avoid the AirPlay conflict on macOS
		RembgServiceURL = "http://localhost:5001"
	}

	ProductImageDir = os.Getenv("PRODUCT_IMAGE_DIR")
	if ProductImageDir == "" {
		ProductImageDir = "product_images"
	}

	UserImageDir = os.Getenv("USER_IMAGE_DIR")
	if UserImageDir == "" {
		UserImageDir = "user_images"
	}

	DatasetPath = os.Getenv("DATASET_PATH")
	if DatasetPath == "" {
		DatasetPath = "skincare_products_clean.csv"
	}

	AWSBucketName = os.Getenv("AWS_BUCKET_NAME")

	GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	GoogleRedirectURL = os.Getenv("GOOGLE_REDIRECT_URL")
	if GoogleRedirectURL == "" {
		GoogleRedirectURL = "http://localhost:8080/auth/google/callback"
	}

	BrowserFetch = os.Getenv("BROWSER_FETCH_ENABLED") == "true"
}
