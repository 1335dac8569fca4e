// Package timezone pins every timestamp the service renders to one application location.
//
// Call Init once at startup with the configured IANA name (APP_TIMEZONE). Until then, and when
// the name cannot be loaded, UTC is used:
//
//	timezone.Init(cfg.App.Timezone)
//	now := timezone.Now()
//	s := timezone.Format(booking.ModifiedAt, constant.DateFormat)
package timezone
