package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dermalens/backend/analysis"
	"github.com/dermalens/backend/config"
	"github.com/dermalens/backend/models"
	"github.com/dermalens/backend/pipeline"
	"github.com/dermalens/backend/recommend"
	"github.com/dermalens/backend/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnalyzeHandler bundles the dependencies of the analysis flows: the
// classifiers, the recommender, the dataset sample and the image pipeline.
type AnalyzeHandler struct {
	Skin        analysis.SkinClassifier
	Hair        analysis.HairClassifier
	Recommender *recommend.Recommender
	Dataset     []recommend.DatasetProduct
	Resolver    *pipeline.Resolver
}

// SkinAnalysisResponse is the payload for POST /analyze/skin
type SkinAnalysisResponse struct {
	AnalysisID string                   `json:"analysis_id,omitempty"`
	Profile    models.SkinProfile       `json:"profile"`
	Products   models.RecommendationSet `json:"products"`
	Fallback   bool                     `json:"fallback"`
	Stats      pipeline.Stats           `json:"stats"`
}

// HairAnalysisResponse is the payload for POST /analyze/hair
type HairAnalysisResponse struct {
	AnalysisID string                   `json:"analysis_id,omitempty"`
	Profile    models.HairProfile       `json:"profile"`
	Products   []models.ResolvedProduct `json:"products"`
	Fallback   bool                     `json:"fallback"`
	Stats      pipeline.Stats           `json:"stats"`
}

// AnalyzeSkin handles POST /analyze/skin: classify the uploaded photo,
// fetch recommendations and resolve images for them.
func (h *AnalyzeHandler) AnalyzeSkin(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Skin Analysis API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userIDStr, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	imagePath, concerns, ok := h.parseAnalysisForm(w, r, &logMessageBuilder)
	if !ok {
		return
	}

	profile, err := h.Skin.ClassifySkin(imagePath, concerns)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to analyze skin image", http.StatusInternalServerError)
		return
	}
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Classified skin: type=%s tone=%d acne=%v", profile.Type, profile.Tone, profile.HasAcne))

	sample := recommend.SampleDataset(h.Dataset, 40)

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Minute)
	defer cancel()

	response := SkinAnalysisResponse{Profile: profile}
	recommended, err := h.Recommender.SkincareProducts(ctx, profile, sample)
	if err != nil {
		// Model unreachable. Serve the static set without images.
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Recommendation failed, using fallback: %v", err))
		fallback := recommend.FallbackSkincare(profile)
		var resolved []models.ResolvedProduct
		for _, p := range fallback {
			resolved = append(resolved, models.ResolvedProduct{RecommendedProduct: p})
		}
		response.Fallback = true
		response.Products = pipeline.PartitionSkincare(resolved)
		h.persistAnalysis(userIDStr, "skin", imagePath, &profile, nil, resolved, true, &logMessageBuilder)
		utils.RespondJSON(w, http.StatusOK, response)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Model recommended %d products", len(recommended)))

	resolved, stats := h.Resolver.ResolveAll(ctx, recommended)
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Resolved %d/%d images (%d background-removed, %d dropped)",
		stats.Resolved, stats.Attempted, stats.BackgroundRemoved, stats.Dropped))

	response.Products = pipeline.PartitionSkincare(resolved)
	response.Stats = stats
	response.AnalysisID = h.persistAnalysis(userIDStr, "skin", imagePath, &profile, nil, resolved, false, &logMessageBuilder)

	utils.RespondJSON(w, http.StatusOK, response)
}

// AnalyzeHair handles POST /analyze/hair.
func (h *AnalyzeHandler) AnalyzeHair(w http.ResponseWriter, r *http.Request) {
	var logMessageBuilder strings.Builder
	defer func() {
		fmt.Println(logMessageBuilder.String())
	}()
	utils.AddToLogMessage(&logMessageBuilder, "[Hair Analysis API]")

	if r.Method != http.MethodPost {
		utils.RespondError(w, &logMessageBuilder, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userIDStr, err := GetUserIDFromContext(r.Context())
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Unauthorized", http.StatusUnauthorized)
		return
	}

	imagePath, _, ok := h.parseAnalysisForm(w, r, &logMessageBuilder)
	if !ok {
		return
	}

	profile, err := h.Hair.ClassifyHair(imagePath)
	if err != nil {
		utils.RespondError(w, &logMessageBuilder, "Failed to analyze hair image", http.StatusInternalServerError)
		return
	}
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Classified hair: type=%s moisture=%s", profile.Type, profile.Moisture))

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Minute)
	defer cancel()

	response := HairAnalysisResponse{Profile: profile}
	recommended, err := h.Recommender.HaircareProducts(ctx, profile)
	if err != nil {
		utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Recommendation failed, using fallback: %v", err))
		fallback := recommend.FallbackHaircare(profile)
		var resolved []models.ResolvedProduct
		for _, p := range fallback {
			resolved = append(resolved, models.ResolvedProduct{RecommendedProduct: p})
		}
		response.Fallback = true
		response.Products = resolved
		h.persistAnalysis(userIDStr, "hair", imagePath, nil, &profile, resolved, true, &logMessageBuilder)
		utils.RespondJSON(w, http.StatusOK, response)
		return
	}

	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Model recommended %d products", len(recommended)))

	resolved, stats := h.Resolver.ResolveAll(ctx, recommended)
	utils.AddToLogMessage(&logMessageBuilder, fmt.Sprintf("Resolved %d/%d images (%d background-removed, %d dropped)",
		stats.Resolved, stats.Attempted, stats.BackgroundRemoved, stats.Dropped))

	if resolved == nil {
		resolved = []models.ResolvedProduct{}
	}
	response.Products = resolved
	response.Stats = stats
	response.AnalysisID = h.persistAnalysis(userIDStr, "hair", imagePath, nil, &profile, resolved, false, &logMessageBuilder)

	utils.RespondJSON(w, http.StatusOK, response)
}

// parseAnalysisForm saves the uploaded photo and reads optional concerns.
// On failure it has already written the error response.
func (h *AnalyzeHandler) parseAnalysisForm(w http.ResponseWriter, r *http.Request, lb *strings.Builder) (string, []string, bool) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondError(w, lb, "Error parsing form data", http.StatusBadRequest)
		return "", nil, false
	}

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		utils.RespondError(w, lb, "Image file is required", http.StatusBadRequest)
		return "", nil, false
	}

	imagePath, err := saveUploadedImage(files[0], config.UserImageDir)
	if err != nil {
		utils.AddToLogMessage(lb, err.Error())
		utils.RespondError(w, lb, "Failed to save image", http.StatusInternalServerError)
		return "", nil, false
	}
	utils.AddToLogMessage(lb, "Saved uploaded image: "+imagePath)

	var concerns []string
	if raw := r.FormValue("concerns"); raw != "" {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				concerns = append(concerns, c)
			}
		}
	}

	return imagePath, concerns, true
}

// persistAnalysis stores the analysis document. Persistence failure is
// logged but never fails the request, the user already has their results.
func (h *AnalyzeHandler) persistAnalysis(userIDStr, kind, imagePath string, skin *models.SkinProfile, hair *models.HairProfile, products []models.ResolvedProduct, fallback bool, lb *strings.Builder) string {
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		utils.AddToLogMessage(lb, "Invalid user ID, skipping persistence")
		return ""
	}

	doc := models.Analysis{
		UserID:    userID,
		Kind:      kind,
		ImagePath: imagePath,
		Skin:      skin,
		Hair:      hair,
		Products:  products,
		Fallback:  fallback,
		CreatedAt: time.Now(),
	}

	collection := utils.GetCollection(config.DBName, "analyses")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := collection.InsertOne(ctx, doc)
	if err != nil {
		utils.AddToLogMessage(lb, fmt.Sprintf("Failed to persist analysis: %v", err))
		return ""
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return ""
}
