package entities

// User holds per-user preferences. Timezone is an IANA zone name;
// empty means UTC.
type User struct {
	DiscordID   string
	Username    string
	DisplayName string
	Timezone    string
}
