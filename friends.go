package board

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// FriendSet is the sorted, duplicate-free set of a person's contacts,
// each in Identity.Hex form.
type FriendSet struct {
	Friends []string `json:"friends"`
}

func (fs FriendSet) MarshalJSON() ([]byte, error) {
	friends := fs.Friends
	if friends == nil {
		friends = []string{}
	}
	return json.Marshal(struct {
		Friends []string `json:"friends"`
	}{friends})
}

// Len is the number of contacts.
func (fs FriendSet) Len() int {
	return len(fs.Friends)
}

// Contains reports whether id is in the set.
func (fs FriendSet) Contains(id Identity) bool {
	_, found := fs.search(id.Hex())
	return found
}

func (fs FriendSet) search(s string) (int, bool) {
	i := sort.SearchStrings(fs.Friends, s)
	return i, i < len(fs.Friends) && fs.Friends[i] == s
}

// insert adds id, reporting false if it was already present.
func (fs *FriendSet) insert(id Identity) bool {
	s := id.Hex()
	i, found := fs.search(s)
	if found {
		return false
	}
	fs.Friends = append(fs.Friends, "")
	copy(fs.Friends[i+1:], fs.Friends[i:])
	fs.Friends[i] = s
	return true
}

// String renders the set as text, every entry preceded by a space.
func (fs FriendSet) String() string {
	var sb strings.Builder
	for _, f := range fs.Friends {
		sb.WriteByte(' ')
		sb.WriteString(f)
	}
	return sb.String()
}

// FriendIndex keeps, for each person, the set of identities they have
// exchanged directed messages with. Each set is a single cell.
type FriendIndex struct {
	persist Persist
	deriver Deriver
	codec   recordCodec[FriendSet]
}

// Add records contact as a friend of person. It is idempotent; added is
// false when contact was already present, in which case nothing is written.
func (fi FriendIndex) Add(ctx context.Context, person, contact Identity) (added bool, err error) {
	k := fi.deriver.Friends(person)
	fs, err := fi.get(ctx, k)
	if err != nil {
		return false, err
	}
	if !fs.insert(contact) {
		return false, nil
	}
	b, err := fi.codec.marshal(fs)
	if err != nil {
		return false, fmt.Errorf("marshal friends of %v: %w", person, err)
	}
	if err := store(ctx, fi.persist, k, b); err != nil {
		return false, err
	}
	return true, nil
}

// Get returns person's friend set, empty if they have none.
func (fi FriendIndex) Get(ctx context.Context, person Identity) (FriendSet, error) {
	return fi.get(ctx, fi.deriver.Friends(person))
}

func (fi FriendIndex) get(ctx context.Context, k Key) (FriendSet, error) {
	b, found, err := load(ctx, fi.persist, k)
	if err != nil {
		return FriendSet{}, err
	}
	if !found || len(b) == 0 {
		return FriendSet{}, nil
	}
	fs, err := fi.codec.unmarshal(b)
	if err != nil {
		return FriendSet{}, fmt.Errorf("unmarshal friends %s: %w", k, err)
	}
	return fs, nil
}
