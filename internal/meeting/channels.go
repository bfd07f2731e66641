package meeting

// channels tracks which transports listen to which room's broadcasts. This is
// wider than room membership: a client on the team page subscribes with
// joinTeamRoom to hear meetingStarted before it ever joins as a participant.
type channels struct {
	rooms   map[string]map[string]struct{}
	handles map[string]map[string]struct{}
}

func newChannels() *channels {
	return &channels{
		rooms:   make(map[string]map[string]struct{}),
		handles: make(map[string]map[string]struct{}),
	}
}

func (c *channels) subscribe(roomID, handle string) bool {
	members, ok := c.rooms[roomID]
	if !ok {
		members = make(map[string]struct{})
		c.rooms[roomID] = members
	}
	if _, ok := members[handle]; ok {
		return false
	}
	members[handle] = struct{}{}

	subs, ok := c.handles[handle]
	if !ok {
		subs = make(map[string]struct{})
		c.handles[handle] = subs
	}
	subs[roomID] = struct{}{}
	return true
}

func (c *channels) unsubscribe(roomID, handle string) {
	if members, ok := c.rooms[roomID]; ok {
		delete(members, handle)
		if len(members) == 0 {
			delete(c.rooms, roomID)
		}
	}
	if subs, ok := c.handles[handle]; ok {
		delete(subs, roomID)
		if len(subs) == 0 {
			delete(c.handles, handle)
		}
	}
}

// unsubscribeAll drops every subscription of handle and returns the rooms it
// was listening to.
func (c *channels) unsubscribeAll(handle string) []string {
	subs := c.handles[handle]
	rooms := make([]string, 0, len(subs))
	for roomID := range subs {
		rooms = append(rooms, roomID)
	}
	for _, roomID := range rooms {
		c.unsubscribe(roomID, handle)
	}
	return rooms
}

func (c *channels) members(roomID string) []string {
	members := c.rooms[roomID]
	out := make([]string, 0, len(members))
	for handle := range members {
		out = append(out, handle)
	}
	return out
}

func (c *channels) isSubscribed(roomID, handle string) bool {
	_, ok := c.rooms[roomID][handle]
	return ok
}
