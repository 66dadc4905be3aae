package entities

// ChatMessage is one entry in a chat channel
type ChatMessage struct {
	ID        string `json:"id,omitempty"`
	Channel   string `json:"channel,omitempty"`
	UserID    string `json:"userId"`
	UserEmail string `json:"userEmail"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// GuildType controls who can join
type GuildType string

// Guild visibility
const (
	GuildPublic  GuildType = "public"
	GuildPrivate GuildType = "private"
)

// Member roles
const (
	RoleLeader = "leader"
	RoleMember = "member"
)

// GuildMember is one entry of Guild.Members
type GuildMember struct {
	Role     string `json:"role"`
	Email    string `json:"email"`
	JoinDate int64  `json:"joinDate"`
}

// Guild is a player group
type Guild struct {
	ID          string                  `json:"id,omitempty"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Type        GuildType               `json:"type"`
	Leader      string                  `json:"leader"`
	Members     map[string]*GuildMember `json:"members"`
	Created     int64                   `json:"created"`
}

// IsMember reports whether uid belongs to the guild
func (g *Guild) IsMember(uid string) bool {
	_, ok := g.Members[uid]
	return ok
}
