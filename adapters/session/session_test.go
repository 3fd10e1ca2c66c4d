package session

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestNewSession(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		id   string
	}{
		{
			name: "valid parameters",
			ctx:  context.Background(),
			id:   "c5b6a1f0-3f1e-4a53-9d4e-2f7f0f6a1b2c",
		},
		{
			name: "nil context",
			ctx:  nil,
			id:   "test-id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := NewSession(tt.ctx, tt.id, &MockIStore{})
			assert.NotNil(t, session)
			assert.Equal(t, tt.id, session.ID())
		})
	}
}

func TestSession_Load(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name      string
		loaded    map[string]string
		mockSetup func(*MockIStore)
		want      map[string]string
		wantErr   bool
		errMsg    string
	}{
		{
			name: "successful load",
			mockSetup: func(mockStore *MockIStore) {
				mockStore.EXPECT().
					Load(gomock.Any(), "test-id").
					Return(map[string]string{"key": "value"}, nil)
			},
			want: map[string]string{"key": "value"},
		},
		{
			name: "missing session starts empty",
			mockSetup: func(mockStore *MockIStore) {
				mockStore.EXPECT().
					Load(gomock.Any(), "test-id").
					Return(nil, nil)
			},
			want: map[string]string{},
		},
		{
			name: "load error",
			mockSetup: func(mockStore *MockIStore) {
				mockStore.EXPECT().
					Load(gomock.Any(), "test-id").
					Return(nil, errors.New("load error"))
			},
			wantErr: true,
			errMsg:  "load error",
		},
		{
			name:   "already loaded",
			loaded: map[string]string{"user_id": "1"},
			mockSetup: func(mockStore *MockIStore) {
				// 不應該呼叫 Load
			},
			want: map[string]string{"user_id": "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := NewMockIStore(ctrl)
			tt.mockSetup(mockStore)

			s := &sessionImpl{
				id:    "test-id",
				ctx:   context.Background(),
				store: mockStore,
				data:  tt.loaded,
			}

			err := s.Load()

			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, s.data)
		})
	}
}

func TestSession_Save(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name      string
		data      map[string]string
		mockSetup func(*MockIStore)
		wantErr   bool
		errMsg    string
	}{
		{
			name: "successful save",
			data: map[string]string{"key": "value"},
			mockSetup: func(mockStore *MockIStore) {
				mockStore.EXPECT().
					Save(gomock.Any(), "test-id", map[string]string{"key": "value"}).
					Return(nil)
			},
			wantErr: false,
		},
		{
			name: "save error",
			data: map[string]string{"key": "value"},
			mockSetup: func(mockStore *MockIStore) {
				mockStore.EXPECT().
					Save(gomock.Any(), "test-id", gomock.Any()).
					Return(errors.New("save error"))
			},
			wantErr: true,
			errMsg:  "save error",
		},
		{
			name:      "nil data",
			data:      nil,
			mockSetup: func(mockStore *MockIStore) {},
			wantErr:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := NewMockIStore(ctrl)
			tt.mockSetup(mockStore)

			s := &sessionImpl{
				id:    "test-id",
				ctx:   context.Background(),
				store: mockStore,
				data:  tt.data,
			}

			err := s.Save()

			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSession_Get(t *testing.T) {
	tests := []struct {
		name     string
		data     map[string]string
		key      string
		expected string
	}{
		{
			name:     "get existing key",
			data:     map[string]string{"key1": "value1"},
			key:      "key1",
			expected: "value1",
		},
		{
			name:     "get non-existent key",
			data:     map[string]string{"key1": "value1"},
			key:      "key2",
			expected: "",
		},
		{
			name:     "nil data",
			data:     nil,
			key:      "key1",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &sessionImpl{
				data: tt.data,
			}
			assert.Equal(t, tt.expected, s.Get(tt.key))
		})
	}
}

func TestSession_Set(t *testing.T) {
	tests := []struct {
		name         string
		initialData  map[string]string
		key          string
		value        string
		expectedData map[string]string
	}{
		{
			name:         "set to existing map",
			initialData:  map[string]string{"key1": "value1"},
			key:          "key2",
			value:        "value2",
			expectedData: map[string]string{"key1": "value1", "key2": "value2"},
		},
		{
			name:         "set to nil map",
			initialData:  nil,
			key:          "key1",
			value:        "value1",
			expectedData: map[string]string{"key1": "value1"},
		},
		{
			name:         "override existing key",
			initialData:  map[string]string{"key1": "value1"},
			key:          "key1",
			value:        "new value",
			expectedData: map[string]string{"key1": "new value"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &sessionImpl{
				data: tt.initialData,
			}
			s.Set(tt.key, tt.value)
			assert.Equal(t, tt.expectedData, s.data)
		})
	}
}

func TestSession_DeleteAndClear(t *testing.T) {
	s := &sessionImpl{}
	s.Delete("missing")
	assert.Nil(t, s.data)

	s.Set("user_id", "1")
	s.Set("username", "admin")
	s.Delete("user_id")
	assert.Equal(t, map[string]string{"username": "admin"}, s.data)

	s.Clear()
	assert.NotNil(t, s.data)
	assert.Empty(t, s.data)
}

func TestSession_Regenerate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	const oldID = "c5b6a1f0-3f1e-4a53-9d4e-2f7f0f6a1b2c"
	mockStore := NewMockIStore(ctrl)
	var notified []string
	s := newSession(context.Background(), oldID, mockStore, func(id string) { notified = append(notified, id) })
	s.data = map[string]string{"user_id": "7"}

	s.Regenerate()
	newID := s.ID()
	assert.NotEqual(t, oldID, newID)
	assert.NoError(t, uuid.Validate(newID))
	assert.Equal(t, []string{newID}, notified)
	assert.Empty(t, s.Get("user_id"))

	s.Set("user_id", "1")
	gomock.InOrder(
		mockStore.EXPECT().Save(gomock.Any(), oldID, gomock.Nil()).Return(nil),
		mockStore.EXPECT().Save(gomock.Any(), newID, map[string]string{"user_id": "1"}).Return(nil),
	)
	assert.NoError(t, s.Save())

	// 舊 ID 只刪除一次
	mockStore.EXPECT().Save(gomock.Any(), newID, map[string]string{"user_id": "1"}).Return(nil)
	assert.NoError(t, s.Save())
}

func TestSession_RegenerateDropError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStore := NewMockIStore(ctrl)
	s := NewSession(context.Background(), "old-id", mockStore)
	s.Regenerate()

	mockStore.EXPECT().Save(gomock.Any(), "old-id", gomock.Nil()).Return(errors.New("store down"))
	err := s.Save()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Fail to drop previous session")
}
