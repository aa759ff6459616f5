// Package discogs is a client for the Discogs REST API.
//
// A [Client] groups the API areas (database, marketplace, collection,
// identity, lists, wantlist and inventory import/export) over one shared
// [Conn]. Each method builds the endpoint path, validates its request
// before any network call and decodes the reply into the types of package
// model:
//
//	client, err := discogs.New(
//		discogs.WithUserAgent("myapp/1.0"),
//		discogs.WithAuth(discogs.PersonalToken{Token: token}),
//	)
//	if err != nil {
//		return err
//	}
//	release, err := client.Database.GetRelease(ctx, &discogs.GetReleaseRequest{ReleaseID: 249504})
//
// List endpoints return a [Page]; follow it with [Page.Next] or range over
// [Page.All].
//
// Failures are typed. Invalid arguments match [ErrInvalidArgument], 4xx
// replies are [*RequestError] and 5xx replies are [*ResponseError]; see
// [IsNotFound] and [StatusCode].
package discogs
