package discogs

import (
	"net/url"
	"strings"

	"github.com/sydlexius/discogs/model"
)

// UserPageRequest pages through a per-user list such as a wantlist,
// submissions or user lists.
type UserPageRequest struct {
	Username string
	PageParams
}

// Validate reports the first invalid field as a [*ValidationError].
func (r *UserPageRequest) Validate() error {
	return firstError(requireName("username", r.Username), r.PageParams.Validate())
}

// Encode validates r and adds its query parameters to q.
func (r *UserPageRequest) Encode(q url.Values) error {
	if err := r.Validate(); err != nil {
		return err
	}
	return r.PageParams.Encode(q)
}

// ContributionsRequest lists the releases a user has contributed to.
type ContributionsRequest struct {
	Username string
	SortParams
	PageParams
}

// Validate reports the first invalid field as a [*ValidationError].
func (r *ContributionsRequest) Validate() error {
	return firstError(
		requireName("username", r.Username),
		r.SortParams.validate(collectionItemSorts),
		r.PageParams.Validate(),
	)
}

// Encode validates r and adds its query parameters to q.
func (r *ContributionsRequest) Encode(q url.Values) error {
	if err := r.Validate(); err != nil {
		return err
	}
	r.SortParams.encode(q)
	return r.PageParams.Encode(q)
}

// EditProfileRequest updates the authenticated user's profile. Blank
// fields are left unchanged.
type EditProfileRequest struct {
	Username string
	Name     string
	HomePage string
	Location string
	Profile  string
	CurrAbbr model.Currency
}

// Validate reports the first invalid field as a [*ValidationError].
func (r *EditProfileRequest) Validate() error {
	return firstError(requireName("username", r.Username), optionalCurrency(r.CurrAbbr))
}

// Encode only validates; r adds no query parameters.
func (r *EditProfileRequest) Encode(q url.Values) error { return r.Validate() }

func (r *EditProfileRequest) body() any {
	b := map[string]string{}
	for key, value := range map[string]string{
		"name":      r.Name,
		"home_page": r.HomePage,
		"location":  r.Location,
		"profile":   r.Profile,
		"curr_abbr": string(r.CurrAbbr),
	} {
		if strings.TrimSpace(value) != "" {
			b[key] = value
		}
	}
	return b
}

// ItemsByReleaseRequest finds the instances of a release in a collection.
type ItemsByReleaseRequest struct {
	Username  string
	ReleaseID int
	PageParams
}

// Validate reports the first invalid field as a [*ValidationError].
func (r *ItemsByReleaseRequest) Validate() error {
	return firstError(
		requireName("username", r.Username),
		requireID("release id", r.ReleaseID),
		r.PageParams.Validate(),
	)
}

// Encode validates r and adds its query parameters to q.
func (r *ItemsByReleaseRequest) Encode(q url.Values) error {
	if err := r.Validate(); err != nil {
		return err
	}
	return r.PageParams.Encode(q)
}

// ItemsByFolderRequest lists the items in a collection folder. FolderID 0
// is the "All" folder.
type ItemsByFolderRequest struct {
	Username string
	FolderID int
	SortParams
	PageParams
}

// Validate reports the first invalid field as a [*ValidationError].
func (r *ItemsByFolderRequest) Validate() error {
	if r.FolderID < 0 {
		return &ValidationError{Field: "folder id", Reason: "must not be negative"}
	}
	return firstError(
		requireName("username", r.Username),
		r.SortParams.validate(collectionItemSorts),
		r.PageParams.Validate(),
	)
}

// Encode validates r and adds its query parameters to q.
func (r *ItemsByFolderRequest) Encode(q url.Values) error {
	if err := r.Validate(); err != nil {
		return err
	}
	r.SortParams.encode(q)
	return r.PageParams.Encode(q)
}

// AddToFolderRequest adds a release to a folder. The "All" folder cannot
// receive releases; use [model.FolderUncategorized] by default.
type AddToFolderRequest struct {
	Username  string
	FolderID  int
	ReleaseID int
}

// Validate reports the first invalid field as a [*ValidationError].
func (r *AddToFolderRequest) Validate() error {
	return firstError(
		requireName("username", r.Username),
		requireID("folder id", r.FolderID),
		requireID("release id", r.ReleaseID),
	)
}

// Encode only validates; r adds no query parameters.
func (r *AddToFolderRequest) Encode(q url.Values) error { return r.Validate() }

// InstanceRequest addresses one instance of a release in a folder.
type InstanceRequest struct {
	Username   string
	FolderID   int
	ReleaseID  int
	InstanceID int
}

// Validate reports the first invalid field as a [*ValidationError].
func (r *InstanceRequest) Validate() error {
	if r.FolderID < 0 {
		return &ValidationError{Field: "folder id", Reason: "must not be negative"}
	}
	return firstError(
		requireName("username", r.Username),
		requireID("release id", r.ReleaseID),
		requireID("instance id", r.InstanceID),
	)
}

// Encode only validates; r adds no query parameters.
func (r *InstanceRequest) Encode(q url.Values) error { return r.Validate() }

// EditInstanceRequest changes an instance's rating or moves it to another
// folder. A rating of 0 clears it.
type EditInstanceRequest struct {
	InstanceRequest
	Rating      *int
	NewFolderID int
}

// Validate reports the first invalid field as a [*ValidationError].
func (r *EditInstanceRequest) Validate() error {
	if err := r.InstanceRequest.Validate(); err != nil {
		return err
	}
	if r.Rating == nil && r.NewFolderID == 0 {
		return &ValidationError{Field: "rating", Reason: "rating or new folder must be set"}
	}
	if r.Rating != nil {
		if err := requireRating("rating", *r.Rating, 0); err != nil {
			return err
		}
	}
	if r.NewFolderID < 0 {
		return &ValidationError{Field: "folder_id", Reason: "must be positive"}
	}
	return nil
}

// Encode only validates; r adds no query parameters.
func (r *EditInstanceRequest) Encode(q url.Values) error { return r.Validate() }

func (r *EditInstanceRequest) body() any {
	b := map[string]int{}
	if r.Rating != nil {
		b["rating"] = *r.Rating
	}
	if r.NewFolderID > 0 {
		b["folder_id"] = r.NewFolderID
	}
	return b
}

// EditFieldRequest sets the value of a custom notes field on an instance.
type EditFieldRequest struct {
	InstanceRequest
	FieldID int
	Value   string
}

// Validate reports the first invalid field as a [*ValidationError].
func (r *EditFieldRequest) Validate() error {
	return firstError(
		r.InstanceRequest.Validate(),
		requireID("field id", r.FieldID),
		requireName("value", r.Value),
	)
}

// Encode validates r and adds its query parameters to q.
func (r *EditFieldRequest) Encode(q url.Values) error {
	if err := r.Validate(); err != nil {
		return err
	}
	setString(q, "value", r.Value)
	return nil
}

// WantRequest adds a release to a wantlist or edits the entry. Rating runs
// from 0 to 5.
type WantRequest struct {
	Username  string
	ReleaseID int
	Notes     string
	Rating    *int
}

// Validate reports the first invalid field as a [*ValidationError].
func (r *WantRequest) Validate() error {
	if err := firstError(requireName("username", r.Username), requireID("release id", r.ReleaseID)); err != nil {
		return err
	}
	if r.Rating != nil {
		return requireRating("rating", *r.Rating, 0)
	}
	return nil
}

// Encode validates r and adds its query parameters to q.
func (r *WantRequest) Encode(q url.Values) error {
	if err := r.Validate(); err != nil {
		return err
	}
	setString(q, "notes", r.Notes)
	setIntPtr(q, "rating", r.Rating)
	return nil
}
