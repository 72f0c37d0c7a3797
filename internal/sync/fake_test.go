package sync

import (
	"context"

	"github.com/hrsync/tcsync/internal/model"
	"github.com/hrsync/tcsync/internal/timecamp"
)

// fakeAPI is an in-memory stand-in for *timecamp.Client used by the engine
// tests. It is intentionally minimal: just enough state to observe what
// the engine would have done.
type fakeAPI struct {
	users      []model.User
	groups     []model.Group
	nextUserID int
	nextGroup  int

	addUserCalls  []fakeAddUserCall
	updateCalls   []fakeUpdateCall
	addGroupCalls []fakeAddGroupCall
	managerCalls  []fakeManagerCall
	settingCalls  []fakeSettingCall
}

type fakeAddUserCall struct {
	Email, Name string
	GroupID     int
}
type fakeUpdateCall struct {
	UserID int
	Fields timecamp.UserUpdate
}
type fakeAddGroupCall struct {
	Name     string
	ParentID int
}
type fakeManagerCall struct {
	GroupID, UserID int
	On              bool
}
type fakeSettingCall struct {
	UserID     int
	Key, Value string
}

func (f *fakeAPI) GetUsers(context.Context) ([]model.User, error)   { return f.users, nil }
func (f *fakeAPI) GetGroups(context.Context) ([]model.Group, error) { return f.groups, nil }

func (f *fakeAPI) AddUser(_ context.Context, email, name string, groupID int) (int, error) {
	f.addUserCalls = append(f.addUserCalls, fakeAddUserCall{email, name, groupID})
	f.nextUserID++
	id := f.nextUserID
	f.users = append(f.users, model.User{ID: id, Email: email, Name: name, GroupID: groupID, Enabled: true})
	return id, nil
}

func (f *fakeAPI) UpdateUser(_ context.Context, userID int, fields timecamp.UserUpdate) error {
	f.updateCalls = append(f.updateCalls, fakeUpdateCall{userID, fields})
	for i := range f.users {
		if f.users[i].ID != userID {
			continue
		}
		if fields.Name != nil {
			f.users[i].Name = *fields.Name
		}
		if fields.Email != nil {
			f.users[i].Email = *fields.Email
		}
		if fields.AdditionalEmail != nil {
			f.users[i].AdditionalEmail = *fields.AdditionalEmail
		}
		if fields.ExternalID != nil {
			f.users[i].ExternalID = *fields.ExternalID
		}
		if fields.RoleID != nil {
			f.users[i].RoleID = *fields.RoleID
		}
		if fields.GroupID != nil {
			f.users[i].GroupID = *fields.GroupID
		}
		if fields.Active != nil {
			f.users[i].Enabled = *fields.Active
		}
	}
	return nil
}

func (f *fakeAPI) AddGroup(_ context.Context, name string, parentID int) (int, error) {
	f.addGroupCalls = append(f.addGroupCalls, fakeAddGroupCall{name, parentID})
	f.nextGroup++
	id := 1000 + f.nextGroup
	f.groups = append(f.groups, model.Group{ID: id, ParentID: parentID, Name: name})
	return id, nil
}

func (f *fakeAPI) SetGroupManager(_ context.Context, groupID, userID int, on bool) error {
	f.managerCalls = append(f.managerCalls, fakeManagerCall{groupID, userID, on})
	return nil
}

func (f *fakeAPI) SetUserSetting(_ context.Context, userID int, key, value string) error {
	f.settingCalls = append(f.settingCalls, fakeSettingCall{userID, key, value})
	return nil
}
