package queue

// BookingNotificationEvent is published for every booking event that
// produces outbound mail: creation, status transitions and the daily
// reminder batch.  It carries enough information for the consumer to
// render and send the email without querying the primary database.
// Action URLs are pre-built (and pre-signed) by the publisher so the
// signing secret never leaves the web process's configuration path.
type BookingNotificationEvent struct {
    EventID          string `json:"event_id"`
    Kind             string `json:"kind"` // mailer.Kind* values
    BookingID        uint64 `json:"booking_id"`
    RestaurantID     uint64 `json:"restaurant_id"`
    RestaurantName   string `json:"restaurant_name"`
    RestaurantEmail  string `json:"restaurant_email,omitempty"`
    NotifyRestaurant bool   `json:"notify_restaurant"`
    Date             string `json:"date"`
    Time             string `json:"time"`
    Guests           uint32 `json:"guests"`
    Children         uint32 `json:"children"`
    FirstName        string `json:"first_name"`
    LastName         string `json:"last_name"`
    Email            string `json:"email,omitempty"`
    SpecialRequest   string `json:"special_request,omitempty"`
    Status           string `json:"status"`
    ConfirmURL       string `json:"confirm_url,omitempty"`
    RefuseURL        string `json:"refuse_url,omitempty"`
    WaitURL          string `json:"wait_url,omitempty"`
    CancelURL        string `json:"cancel_url,omitempty"`
    OccurredAt       string `json:"occurred_at"`
}
