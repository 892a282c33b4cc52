// Package notification holds the in-app Notification record and the web push
// PushSubscription a user registers to receive out-of-band delivery.
package notification
