package controllers

import (
	"context"
	"log"
	"net/http"
	"sort"
	"time"

	"civicpulse-be/config"
	"civicpulse-be/models"
	"civicpulse-be/realtime"
	"civicpulse-be/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// IssueHub pushes full feed snapshots to websocket subscribers whenever an
// issue changes. Controllers call IssueHub.Notify() after every mutation.
var IssueHub = realtime.NewHub(func(ctx context.Context) (interface{}, error) {
	return fetchVisibleIssues(ctx, "", "")
})

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// fetchVisibleIssues returns non-hidden issues, optionally filtered by
// category and status. Filters apply before any sorting.
func fetchVisibleIssues(ctx context.Context, categoryID, status string) ([]models.Issue, error) {
	filter := bson.M{"hidden": false}
	if categoryID != "" && categoryID != "all" {
		filter["categoryId"] = categoryID
	}
	if status != "" && status != "all" {
		filter["status"] = status
	}

	cursor, err := config.GetCollection("issues").Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// upvotedSet returns the IDs of the given issues the user has upvoted, in
// one query against the upvotes collection.
func upvotedSet(ctx context.Context, userID primitive.ObjectID, issues []models.Issue) (map[primitive.ObjectID]bool, error) {
	if len(issues) == 0 {
		return map[primitive.ObjectID]bool{}, nil
	}

	ids := make([]primitive.ObjectID, 0, len(issues))
	for _, issue := range issues {
		ids = append(ids, issue.ID)
	}

	cursor, err := config.GetCollection("upvotes").Find(ctx, bson.M{
		"user":  userID,
		"issue": bson.M{"$in": ids},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var upvotes []models.Upvote
	if err := cursor.All(ctx, &upvotes); err != nil {
		return nil, err
	}

	voted := make(map[primitive.ObjectID]bool, len(upvotes))
	for _, u := range upvotes {
		voted[u.Issue] = true
	}
	return voted, nil
}

// CreateIssue handles the creation of a new issue
func CreateIssue(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	createdByID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var input struct {
		Title       string              `json:"title" binding:"required,max=200"`
		Description string              `json:"description" binding:"required,max=1000"`
		CategoryID  string              `json:"categoryId" binding:"required"`
		Latitude    float64             `json:"latitude" binding:"required"`
		Longitude   float64             `json:"longitude" binding:"required"`
		Address     string              `json:"address,omitempty"`
		Photos      []models.IssuePhoto `json:"photos,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidCategory(input.CategoryID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var creator models.User
	if err := config.GetCollection("users").FindOne(ctx, bson.M{"_id": createdByID}).Decode(&creator); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	address := input.Address
	if address == "" {
		address = "Unknown Address"
	}
	photos := input.Photos
	if photos == nil {
		photos = []models.IssuePhoto{}
	}

	now := time.Now()
	issue := models.Issue{
		ID:              primitive.NewObjectID(),
		CreatedBy:       createdByID,
		CreatorName:     creator.Name,
		CreatorPhotoURL: creator.PhotoURL,
		Title:           input.Title,
		Description:     input.Description,
		CategoryID:      input.CategoryID,
		Status:          models.StatusOpen,
		Latitude:        input.Latitude,
		Longitude:       input.Longitude,
		Address:         address,
		Hidden:          false,
		UpvoteCount:     0,
		Photos:          photos,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if _, err := config.GetCollection("issues").InsertOne(ctx, issue); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create issue"})
		return
	}

	IssueHub.Notify()
	c.JSON(http.StatusCreated, issue)
}

// ListIssues returns the non-hidden issues for the feed. Category and
// status filters are applied before sorting; sort is one of trending
// (default), newest, upvoted.
func ListIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sortMode := c.DefaultQuery("sort", services.SortTrending)
	category := c.Query("category")
	status := c.Query("status")

	issues, err := fetchVisibleIssues(ctx, category, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}

	services.SortIssues(issues, sortMode, time.Now())

	// Mark which issues the requesting user has upvoted
	voted := map[primitive.ObjectID]bool{}
	if userIDStr, exists := c.Get("user_id"); exists {
		if objID, err := primitive.ObjectIDFromHex(userIDStr.(string)); err == nil {
			if v, err := upvotedSet(ctx, objID, issues); err == nil {
				voted = v
			}
		}
	}

	type IssueWithVote struct {
		models.Issue
		UserHasVoted bool `json:"userHasVoted"`
	}

	response := make([]IssueWithVote, 0, len(issues))
	for _, issue := range issues {
		response = append(response, IssueWithVote{Issue: issue, UserHasVoted: voted[issue.ID]})
	}

	c.JSON(http.StatusOK, gin.H{
		"issues":      response,
		"totalIssues": len(response),
	})
}

// GetIssue retrieves an issue by its ID
func GetIssue(c *gin.Context) {
	idParam := c.Param("id")
	issueID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var issue models.Issue
	err = config.GetCollection("issues").FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	userHasVoted := false
	if userIDStr, exists := c.Get("user_id"); exists {
		if currentUserID, err := primitive.ObjectIDFromHex(userIDStr.(string)); err == nil {
			count, err := config.GetCollection("upvotes").CountDocuments(ctx, bson.M{
				"issue": issueID,
				"user":  currentUserID,
			})
			if err == nil && count > 0 {
				userHasVoted = true
			}
		}
	}

	type IssueWithVote struct {
		models.Issue
		UserHasVoted bool `json:"userHasVoted"`
	}
	c.JSON(http.StatusOK, IssueWithVote{Issue: issue, UserHasVoted: userHasVoted})
}

// GetMyIssues retrieves all issues created by the authenticated user,
// including hidden ones, newest first.
func GetMyIssues(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	userObjID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := config.GetCollection("issues").Find(ctx, bson.M{"createdBy": userObjID}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode issues"})
		return
	}

	c.JSON(http.StatusOK, issues)
}

// UpdateIssueStatus moves an issue along its lifecycle. Transitions only
// go forward (open → acknowledged → resolved); an optional note is shown
// to residents with the new status.
func UpdateIssueStatus(c *gin.Context) {
	idParam := c.Param("id")
	issueID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
		Note   string `json:"note,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var issue models.Issue
	err = config.GetCollection("issues").FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	next := models.IssueStatus(input.Status)
	if !issue.Status.CanTransitionTo(next) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status cannot move backwards"})
		return
	}

	update := bson.M{"status": next, "updatedAt": time.Now()}
	if input.Note != "" {
		update["statusNote"] = input.Note
	}

	_, err = config.GetCollection("issues").UpdateOne(ctx, bson.M{"_id": issueID}, bson.M{"$set": update})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update issue"})
		return
	}

	IssueHub.Notify()
	c.JSON(http.StatusOK, gin.H{"message": "Status updated successfully"})
}

// ToggleUpvote casts or removes the user's upvote on an issue. The upvote
// record moves first and the unique (issue, user) index is the arbiter;
// the denormalized count then follows with a server-side atomic $inc, so
// concurrent toggles cannot lose updates.
func ToggleUpvote(c *gin.Context) {
	idParam := c.Param("id")
	issueID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	userObjID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issueCollection := config.GetCollection("issues")
	upvoteCollection := config.GetCollection("upvotes")

	count, err := issueCollection.CountDocuments(ctx, bson.M{"_id": issueID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		return
	}
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}

	upvote := models.Upvote{
		ID:        primitive.NewObjectID(),
		Issue:     issueID,
		User:      userObjID,
		CreatedAt: time.Now(),
	}

	voted := true
	_, err = upvoteCollection.InsertOne(ctx, upvote)
	if err != nil {
		if !mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cast upvote"})
			return
		}
		// Already upvoted: remove the record instead
		result, err := upvoteCollection.DeleteOne(ctx, bson.M{"issue": issueID, "user": userObjID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove upvote"})
			return
		}
		if result.DeletedCount == 0 {
			// A concurrent toggle removed it first; nothing to decrement
			var current models.Issue
			_ = issueCollection.FindOne(ctx, bson.M{"_id": issueID}).Decode(&current)
			c.JSON(http.StatusOK, gin.H{
				"voted":        false,
				"votes":        current.UpvoteCount,
				"userHasVoted": false,
			})
			return
		}
		voted = false
	}

	delta := int64(1)
	filter := bson.M{"_id": issueID}
	if !voted {
		delta = -1
		// Never let the counter go below zero
		filter["upvoteCount"] = bson.M{"$gt": 0}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Issue
	err = issueCollection.FindOneAndUpdate(ctx, filter,
		bson.M{"$inc": bson.M{"upvoteCount": delta}}, opts).Decode(&updated)
	if err != nil && err != mongo.ErrNoDocuments {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update upvote count"})
		return
	}

	IssueHub.Notify()
	c.JSON(http.StatusOK, gin.H{
		"voted":        voted,
		"votes":        updated.UpvoteCount,
		"userHasVoted": voted,
	})
}

// GetUserStats returns how many reports the authenticated user filed and
// how many upvotes those reports collected.
func GetUserStats(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	userObjID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := config.GetCollection("issues").Find(ctx, bson.M{"createdBy": userObjID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode issues"})
		return
	}

	var upvotes int64
	for _, issue := range issues {
		upvotes += issue.UpvoteCount
	}

	c.JSON(http.StatusOK, gin.H{
		"reportCount": len(issues),
		"upvoteCount": upvotes,
	})
}

// RecentIssues returns the most recent visible issues for the map view
func RecentIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	limit := 19

	projection := bson.M{
		"_id":        1,
		"title":      1,
		"latitude":   1,
		"longitude":  1,
		"address":    1,
		"categoryId": 1,
		"createdAt":  1,
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(projection)

	cursor, err := config.GetCollection("issues").Find(ctx, bson.M{"hidden": false}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve recent issues"})
		return
	}
	defer cursor.Close(ctx)

	type IssuePin struct {
		ID         primitive.ObjectID `bson:"_id" json:"id"`
		Title      string             `bson:"title" json:"title"`
		Latitude   float64            `bson:"latitude" json:"latitude"`
		Longitude  float64            `bson:"longitude" json:"longitude"`
		Address    string             `bson:"address" json:"address"`
		CategoryID string             `bson:"categoryId" json:"categoryId"`
		CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	}

	var pins []IssuePin
	if err := cursor.All(ctx, &pins); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode recent issues"})
		return
	}

	c.JSON(http.StatusOK, pins)
}

// GetIssueAnalytics returns analytical data about issues
func GetIssueAnalytics(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issueCollection := config.GetCollection("issues")

	// Issues by category using aggregation
	categoryPipeline := []bson.M{
		{"$match": bson.M{"hidden": false}},
		{
			"$group": bson.M{
				"_id":   "$categoryId",
				"count": bson.M{"$sum": 1},
			},
		},
		{
			"$project": bson.M{
				"categoryId": "$_id",
				"value":      "$count",
				"_id":        0,
			},
		},
	}

	categoryCursor, err := issueCollection.Aggregate(ctx, categoryPipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get category analytics"})
		return
	}
	defer categoryCursor.Close(ctx)

	var issuesByCategory []bson.M
	if err := categoryCursor.All(ctx, &issuesByCategory); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode category analytics"})
		return
	}

	// Reports per day for the last 7 days
	var last7Days []gin.H
	for i := 6; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i)
		date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

		nextDate := date.AddDate(0, 0, 1)

		count, err := issueCollection.CountDocuments(ctx, bson.M{
			"createdAt": bson.M{
				"$gte": date,
				"$lt":  nextDate,
			},
		})
		if err != nil {
			count = 0
		}

		last7Days = append(last7Days, gin.H{
			"date":  date.Format("2006-01-02"),
			"count": count,
		})
	}

	// Top upvoted issues among the most recent 50
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(50)

	cursor, err := issueCollection.Find(ctx, bson.M{"hidden": false}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues for vote analysis"})
		return
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode issues"})
		return
	}

	type IssueWithVoteCount struct {
		ID         primitive.ObjectID `json:"id"`
		Title      string             `json:"title"`
		CategoryID string             `json:"categoryId"`
		Votes      int64              `json:"votes"`
	}

	topVoted := make([]IssueWithVoteCount, 0, len(issues))
	for _, issue := range issues {
		topVoted = append(topVoted, IssueWithVoteCount{
			ID:         issue.ID,
			Title:      issue.Title,
			CategoryID: issue.CategoryID,
			Votes:      issue.UpvoteCount,
		})
	}

	sort.SliceStable(topVoted, func(i, j int) bool {
		return topVoted[i].Votes > topVoted[j].Votes
	})
	if len(topVoted) > 5 {
		topVoted = topVoted[:5]
	}

	totalIssues, err := issueCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		totalIssues = 0
	}

	totalUpvotes, err := config.GetCollection("upvotes").CountDocuments(ctx, bson.M{})
	if err != nil {
		totalUpvotes = 0
	}

	openIssues, err := issueCollection.CountDocuments(ctx, bson.M{
		"status": bson.M{"$in": []string{string(models.StatusOpen), string(models.StatusAcknowledged)}},
	})
	if err != nil {
		openIssues = 0
	}

	response := gin.H{
		"issuesByCategory": issuesByCategory,
		"last7Days":        last7Days,
		"topVotedIssues":   topVoted,
		"totalIssues":      totalIssues,
		"totalUpvotes":     totalUpvotes,
		"openIssues":       openIssues,
	}

	c.JSON(http.StatusOK, response)
}

// ListCategories returns the fixed reporting categories for the client.
func ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": models.Categories})
}

// SubscribeIssues upgrades the connection and streams full feed snapshots
// until the client disconnects.
func SubscribeIssues(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("Websocket upgrade failed:", err)
		return
	}
	IssueHub.Serve(conn)
}
