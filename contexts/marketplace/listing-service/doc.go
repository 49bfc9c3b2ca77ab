// Package listingservice owns the classifieds listing lifecycle inside the
// marketplace context.
//
// A listing is one polymorphic entity (watch, car or housing) moving through
// pending, approved, rejected, cancelled and expired. The module holds the
// transition state machine, the admin moderation surface, and the periodic
// expiry sweep; creation admission (schedule and quota gates) is consumed
// through a port so this context never reaches into the admission module.
package listingservice
