package user

import "time"

const collectionName = "users"

type (
	// document ids are UUID strings so both stores share one identifier format.
	document struct {
		ID        string `bson:"_id"`
		FirstName string `bson:"first_name"`
		LastName  string `bson:"last_name"`
		Email     string `bson:"email"`
		Mobile    string `bson:"mobile"`
		Gender    string `bson:"gender"`
		Status    string `bson:"status"`
		Location  string `bson:"location"`
		Profile   string `bson:"profile"`

		CreatedAt time.Time `bson:"created_at"`
		UpdatedAt time.Time `bson:"updated_at"`
	}
	documents []*document
)

var searchFields = []string{"first_name", "last_name", "email", "mobile", "location"}
