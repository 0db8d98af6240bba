package models

// School groups users of one campus. AdminIDs is the role list managed via
// the school admin endpoints; it must never become empty once populated.
type School struct {
	Base     `bson:",inline"`
	Name     string   `bson:"name" json:"name"`
	Domain   string   `bson:"domain,omitempty" json:"domain,omitempty"`
	AdminIDs []string `bson:"admin_ids" json:"adminIds"`
}

// HasAdmin reports whether userID is in the school's admin list.
func (s *School) HasAdmin(userID string) bool {
	for _, id := range s.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
