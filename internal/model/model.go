package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleTourist   Role = "tourist"
	RoleTourGuide Role = "tourguide"
	RoleAdmin     Role = "admin"
)

type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email       string             `bson:"email" json:"email"`
	Name        string             `bson:"name" json:"name"`
	PhotoURL    string             `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	Role        Role               `bson:"role" json:"role"`
	RequestRole *Role              `bson:"requestRole,omitempty" json:"requestRole,omitempty"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address     string             `bson:"address,omitempty" json:"address,omitempty"`
	Bio         string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Reviews     []Review           `bson:"reviews,omitempty" json:"reviews,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

type Review struct {
	Rating  int       `bson:"rating" json:"rating"`
	Comment string    `bson:"comment" json:"comment"`
	Email   string    `bson:"email" json:"email"`
	Date    time.Time `bson:"date" json:"date"`
}

type Package struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	TourType    string             `bson:"tourType" json:"tourType"`
	Price       float64            `bson:"price" json:"price"`
	Duration    string             `bson:"duration" json:"duration"`
	Description string             `bson:"description" json:"description"`
	Plan        []string           `bson:"plan,omitempty" json:"plan,omitempty"`
	Images      []PackageImage     `bson:"images,omitempty" json:"images,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// PackageImage is stored inline in the package document. The raw bytes are
// never serialized into list or detail responses; they are served through
// the image endpoint instead.
type PackageImage struct {
	Name        string `bson:"name" json:"name"`
	ContentType string `bson:"contentType" json:"contentType"`
	Data        []byte `bson:"data,omitempty" json:"-"`
}

type BookingStatus string

const (
	BookingInReview BookingStatus = "in-review"
	BookingAccepted BookingStatus = "accepted"
	BookingRejected BookingStatus = "rejected"
)

type Booking struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PackageID    primitive.ObjectID `bson:"packageId" json:"packageId"`
	PackageTitle string             `bson:"packageTitle" json:"packageTitle"`
	TouristEmail string             `bson:"touristEmail" json:"touristEmail"`
	TouristName  string             `bson:"touristName,omitempty" json:"touristName,omitempty"`
	GuideID      primitive.ObjectID `bson:"guideId,omitempty" json:"guideId,omitempty"`
	GuideName    string             `bson:"guideName,omitempty" json:"guideName,omitempty"`
	Date         time.Time          `bson:"date" json:"date"`
	Price        float64            `bson:"price" json:"price"`
	Status       BookingStatus      `bson:"status" json:"status"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

type WishlistItem struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PackageID    primitive.ObjectID `bson:"packageId" json:"packageId"`
	PackageTitle string             `bson:"packageTitle,omitempty" json:"packageTitle,omitempty"`
	Price        float64            `bson:"price,omitempty" json:"price,omitempty"`
	AddedAt      time.Time          `bson:"addedAt" json:"addedAt"`
}

type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email         string             `bson:"email" json:"email"`
	BookingID     primitive.ObjectID `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	Amount        int64              `bson:"amount" json:"amount"`
	Currency      string             `bson:"currency" json:"currency"`
	TransactionID string             `bson:"transactionId" json:"transactionId"`
	PaidAt        time.Time          `bson:"paidAt" json:"paidAt"`
}

type Story struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Content     string             `bson:"content" json:"content"`
	Images      []string           `bson:"images,omitempty" json:"images,omitempty"`
	AuthorEmail string             `bson:"authorEmail" json:"authorEmail"`
	AuthorName  string             `bson:"authorName,omitempty" json:"authorName,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

type CommunityPost struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Content     string             `bson:"content" json:"content"`
	AuthorEmail string             `bson:"authorEmail" json:"authorEmail"`
	AuthorName  string             `bson:"authorName,omitempty" json:"authorName,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

type BlogPost struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Content    string             `bson:"content" json:"content"`
	CoverURL   string             `bson:"coverURL,omitempty" json:"coverURL,omitempty"`
	AuthorName string             `bson:"authorName,omitempty" json:"authorName,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
