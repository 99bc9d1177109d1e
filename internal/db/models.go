package db

import (
	"time"
)

// Reference data

type Sex struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"size:64;not null;uniqueIndex"`
}

func (Sex) TableName() string { return "sex" }

type Interest struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"size:64;not null;uniqueIndex"`
}

func (Interest) TableName() string { return "interest" }

type SubscriptionPlan struct {
	ID           int64   `gorm:"primaryKey;autoIncrement"`
	Name         string  `gorm:"size:64;not null"`
	Price        float64 `gorm:"not null"`
	PaymentCycle string  `gorm:"size:16;not null"`
	Benefits     string  `gorm:"size:255"`
	IsActive     bool    `gorm:"not null;default:true"`
}

func (SubscriptionPlan) TableName() string { return "subscription_plan" }

type Country struct {
	ID      int64  `gorm:"primaryKey;autoIncrement"`
	Name    string `gorm:"size:128;not null"`
	ISOCode string `gorm:"column:iso_code;size:2;not null"`
}

func (Country) TableName() string { return "country" }

type City struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"size:128;not null"`
	FkCountryID int64  `gorm:"column:fk_country_id;not null;index"`
}

func (City) TableName() string { return "city" }

// Preferences

type SearchPreference struct {
	ID                int64  `gorm:"primaryKey;autoIncrement"`
	SearchDescription string `gorm:"size:255"`
}

func (SearchPreference) TableName() string { return "search_preference" }

type SearchPreferenceSex struct {
	ID                   int64 `gorm:"primaryKey;autoIncrement"`
	FkSearchPreferenceID int64 `gorm:"column:fk_search_preference_id;not null;index"`
	FkSexID              int64 `gorm:"column:fk_sex_id;not null"`
	Priority             int   `gorm:"not null"`
}

func (SearchPreferenceSex) TableName() string { return "search_preference_sex" }

type SearchPreferenceInterest struct {
	ID                   int64 `gorm:"primaryKey;autoIncrement"`
	FkSearchPreferenceID int64 `gorm:"column:fk_search_preference_id;not null;index"`
	FkInterestID         int64 `gorm:"column:fk_interest_id;not null"`
	LevelOfInterest      int   `gorm:"not null"`
	IsPositive           bool  `gorm:"not null"`
}

func (SearchPreferenceInterest) TableName() string { return "search_preference_interest" }

// Subscription chain: billing_address -> payment_data -> subscription

type BillingAddress struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	FkCityID   int64  `gorm:"column:fk_city_id;not null"`
	Street     string `gorm:"size:128;not null"`
	PostalCode string `gorm:"size:16;not null"`
}

func (BillingAddress) TableName() string { return "billing_address" }

type PaymentData struct {
	ID                 int64  `gorm:"primaryKey;autoIncrement"`
	Token              string `gorm:"size:128;not null"`
	FkBillingAddressID int64  `gorm:"column:fk_billing_address_id;not null"`
}

func (PaymentData) TableName() string { return "payment_data" }

type Subscription struct {
	ID                   int64     `gorm:"primaryKey;autoIncrement"`
	ExpirationDate       time.Time `gorm:"not null"`
	LastRenewal          time.Time `gorm:"not null"`
	IsActive             bool      `gorm:"not null"`
	AutoRenewal          bool      `gorm:"not null"`
	FkSubscriptionPlanID int64     `gorm:"column:fk_subscription_plan_id;not null"`
	FkPaymentDataID      int64     `gorm:"column:fk_payment_data_id;not null"`
}

func (Subscription) TableName() string { return "subscription" }

// Accounts

type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	Username     string    `gorm:"uniqueIndex;size:64;not null"`
	Email        string    `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (User) TableName() string { return "user" }

// UserDetails is the profile every social record points at.
type UserDetails struct {
	ID                   int64     `gorm:"primaryKey;autoIncrement"`
	Name                 string    `gorm:"size:64;not null"`
	Surname              string    `gorm:"size:64;not null"`
	FkSexID              int64     `gorm:"column:fk_sex_id;not null"`
	FkCityID             *int64    `gorm:"column:fk_city_id"`
	FkSubscriptionID     *int64    `gorm:"column:fk_subscription_id;uniqueIndex"`
	FkSearchPreferenceID *int64    `gorm:"column:fk_search_preference_id;uniqueIndex"`
	FkUserID             int64     `gorm:"column:fk_user_id;not null;uniqueIndex"`
	CreatedAt            time.Time `gorm:"not null"`
}

func (UserDetails) TableName() string { return "user_details" }

type UserInterest struct {
	ID              int64 `gorm:"primaryKey;autoIncrement"`
	FkUserDetailsID int64 `gorm:"column:fk_user_details_id;not null;index"`
	FkInterestID    int64 `gorm:"column:fk_interest_id;not null"`
	LevelOfInterest int   `gorm:"not null"`
	IsPositive      bool  `gorm:"not null"`
}

func (UserInterest) TableName() string { return "user_interest" }

type Image struct {
	ID              int64     `gorm:"primaryKey;autoIncrement"`
	FilePath        string    `gorm:"size:255;not null"`
	UploadedAt      time.Time `gorm:"not null"`
	IsCurrent       bool      `gorm:"not null"`
	FileSizeBytes   int64     `gorm:"not null"`
	IsVerified      bool      `gorm:"not null"`
	FkUserDetailsID int64     `gorm:"column:fk_user_details_id;not null;index"`
}

func (Image) TableName() string { return "image" }

type Administrator struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	FkUserID       int64     `gorm:"column:fk_user_id;not null;uniqueIndex"`
	HiringDate     time.Time `gorm:"not null"`
	ReportsHandled int       `gorm:"not null;default:0"`
}

func (Administrator) TableName() string { return "administrator" }

// Interactions

// Swipe is a directed decision; the swiping and swiped profiles always differ.
type Swipe struct {
	ID                     int64     `gorm:"primaryKey;autoIncrement"`
	Result                 bool      `gorm:"not null"`
	FkSwipingUserDetailsID int64     `gorm:"column:fk_swiping_user_details_id;not null;index:idx_swipe_pair,priority:1"`
	FkSwipedUserDetailsID  int64     `gorm:"column:fk_swiped_user_details_id;not null;index:idx_swipe_pair,priority:2"`
	SwipeTime              time.Time `gorm:"not null"`
}

func (Swipe) TableName() string { return "swipe" }

// Match stores a mutual like in canonical order, person1 < person2.
type Match struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	FkPerson1ID int64     `gorm:"column:fk_person1_id;not null;uniqueIndex:idx_match_pair,priority:1"`
	FkPerson2ID int64     `gorm:"column:fk_person2_id;not null;uniqueIndex:idx_match_pair,priority:2"`
	DateFormed  time.Time `gorm:"not null"`
	Status      string    `gorm:"size:16;not null"`
}

func (Match) TableName() string { return "match" }

type Conversation struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	FkMatchID    int64  `gorm:"column:fk_match_id;not null;uniqueIndex"`
	ChatTheme    string `gorm:"size:16;not null"`
	ChatReaction int    `gorm:"not null"`
}

func (Conversation) TableName() string { return "conversation" }

type Message struct {
	ID                    int64     `gorm:"primaryKey;autoIncrement"`
	SendTime              time.Time `gorm:"not null"`
	Contents              string    `gorm:"size:1024;not null"`
	Reaction              *int      `gorm:"column:reaction"`
	FkSenderID            *int64    `gorm:"column:fk_sender_id"`
	FkConversationID      int64     `gorm:"column:fk_conversation_id;not null;index"`
	FkReplyingToMessageID *int64    `gorm:"column:fk_replying_to_message_id"`
}

func (Message) TableName() string { return "message" }

// Safety records

type Report struct {
	ID                       int64     `gorm:"primaryKey;autoIncrement"`
	Reason                   string    `gorm:"size:255;not null"`
	ReportDate               time.Time `gorm:"not null"`
	FkReportingUserDetailsID int64     `gorm:"column:fk_reporting_user_details_id;not null"`
	FkReportedUserDetailsID  int64     `gorm:"column:fk_reported_user_details_id;not null;index"`
	FkAdministratorID        *int64    `gorm:"column:fk_administrator_id"`
}

func (Report) TableName() string { return "report" }

type Ban struct {
	ID              int64     `gorm:"primaryKey;autoIncrement"`
	FkUserDetailsID int64     `gorm:"column:fk_user_details_id;not null;index"`
	FkReportID      int64     `gorm:"column:fk_report_id;not null"`
	StartDate       time.Time `gorm:"not null"`
	PeriodDays      int       `gorm:"not null"`
	IsActive        bool      `gorm:"not null"`
}

func (Ban) TableName() string { return "ban" }

type Block struct {
	ID                      int64      `gorm:"primaryKey;autoIncrement"`
	FkBlockingUserDetailsID int64      `gorm:"column:fk_blocking_user_details_id;not null"`
	FkBlockedUserDetailsID  int64      `gorm:"column:fk_blocked_user_details_id;not null"`
	StartDate               time.Time  `gorm:"not null"`
	EndDate                 *time.Time `gorm:"column:end_date"`
	IsActive                bool       `gorm:"not null"`
}

func (Block) TableName() string { return "block" }

// Models lists every table in insertion order; reset walks it backwards.
func Models() []any {
	return []any{
		&Sex{}, &Interest{}, &SubscriptionPlan{}, &Country{}, &City{},
		&SearchPreference{}, &SearchPreferenceSex{}, &SearchPreferenceInterest{},
		&BillingAddress{}, &PaymentData{}, &Subscription{},
		&User{}, &UserDetails{}, &UserInterest{}, &Image{}, &Administrator{},
		&Swipe{}, &Match{}, &Conversation{}, &Message{},
		&Report{}, &Ban{}, &Block{},
	}
}
