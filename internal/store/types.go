package store

import "time"

// Channel is one conversation container as stored in the database. ID is the
// stable identifier used as the output filename when writing to disk.
type Channel struct {
	ID          string
	DisplayName string
	Type        string // single-letter Mattermost type
	TeamName    string
}

// channelTypes maps the single-letter type column to a readable name.
var channelTypes = map[string]string{
	"O": "Open Channel",
	"P": "Private Channel",
	"D": "Direct Message Channel",
	"G": "Group Message Channel",
}

// TypeName returns the verbose channel type for transcript headers, or the
// raw type letter if it is not one of the known four.
func (c Channel) TypeName() string {
	if name, ok := channelTypes[c.Type]; ok {
		return name
	}
	return c.Type
}

// Message is one raw post row joined with its author.
type Message struct {
	ID        string
	ChannelID string
	Username  string
	Position  string // author's job title, may be empty
	RootID    string // thread parent post id, empty for top-level posts
	CreateAt  time.Time
	Body      string
}
