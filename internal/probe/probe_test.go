package probe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestedlab/vlabctl/internal/platform/vi"
)

var errNotFound = vi.Error{Code: vi.ErrorCodeNotFound, Message: "not here"}

func TestControlPlaneKind_RecognizedTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		apiType string
		want    vi.ControlPlaneKind
	}{
		{apiType: "ClusterManager", want: vi.KindClusterManager},
		{apiType: "HostAgent", want: vi.KindHypervisor},
	}

	for _, tt := range tests {
		t.Run(tt.apiType, func(t *testing.T) {
			t.Parallel()
			mock := &vi.MockClient{
				AboutFunc: func(context.Context) (vi.AboutInfo, error) {
					return vi.AboutInfo{APIType: tt.apiType}, nil
				},
			}

			kind, err := ControlPlaneKind(context.Background(), mock)
			require.NoError(t, err)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestControlPlaneKind_UnknownTypeFallsBackWhenHostsEnumerate(t *testing.T) {
	t.Parallel()

	mock := &vi.MockClient{
		AboutFunc: func(context.Context) (vi.AboutInfo, error) {
			return vi.AboutInfo{APIType: "Experimental"}, nil
		},
		ListHostsFunc: func(context.Context) ([]vi.Host, error) {
			return []vi.Host{{Name: "outer-host"}}, nil
		},
	}

	kind, err := ControlPlaneKind(context.Background(), mock)
	require.NoError(t, err)
	assert.Equal(t, vi.KindHypervisor, kind)
}

func TestControlPlaneKind_UnknownTypeFailsWhenHostsDoNot(t *testing.T) {
	t.Parallel()

	mock := &vi.MockClient{
		AboutFunc: func(context.Context) (vi.AboutInfo, error) {
			return vi.AboutInfo{APIType: "Experimental"}, nil
		},
		ListHostsFunc: func(context.Context) ([]vi.Host, error) {
			return nil, errors.New("no host inventory")
		},
	}

	_, err := ControlPlaneKind(context.Background(), mock)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Experimental")
}

func TestStorage_PoolPreferred(t *testing.T) {
	t.Parallel()

	mock := &vi.MockClient{}
	res, err := Storage(context.Background(), mock, "lab-storage")
	require.NoError(t, err)
	assert.True(t, res.Pool)
}

func TestStorage_FallsBackToSingleVolume(t *testing.T) {
	t.Parallel()

	mock := &vi.MockClient{
		GetDatastorePoolFunc: func(context.Context, string) (*vi.StorageResource, error) {
			return nil, errNotFound
		},
	}

	res, err := Storage(context.Background(), mock, "lab-storage")
	require.NoError(t, err)
	assert.False(t, res.Pool)
	assert.Equal(t, "lab-storage", res.Name)
}

func TestStorage_RejectsResourceWithoutVolumes(t *testing.T) {
	t.Parallel()

	mock := &vi.MockClient{
		GetDatastorePoolFunc: func(_ context.Context, name string) (*vi.StorageResource, error) {
			// A pool can exist in inventory before any volume backs it.
			return &vi.StorageResource{Name: name, Pool: true}, nil
		},
	}

	_, err := Storage(context.Background(), mock, "lab-storage")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no backing volumes")
	assert.Contains(t, err.Error(), "lab-storage")
}

func TestStorage_BothMissingIsResourceNotFound(t *testing.T) {
	t.Parallel()

	mock := &vi.MockClient{
		GetDatastorePoolFunc: func(context.Context, string) (*vi.StorageResource, error) {
			return nil, errNotFound
		},
		GetDatastoreFunc: func(context.Context, string) (*vi.StorageResource, error) {
			return nil, errNotFound
		},
	}

	_, err := Storage(context.Background(), mock, "lab-storage")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestStorage_UnexpectedErrorIsNotSwallowed(t *testing.T) {
	t.Parallel()

	boom := errors.New("endpoint on fire")
	mock := &vi.MockClient{
		GetDatastorePoolFunc: func(context.Context, string) (*vi.StorageResource, error) {
			return nil, boom
		},
	}

	_, err := Storage(context.Background(), mock, "lab-storage")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrResourceNotFound)
}

func TestNetwork_DistributedPreferred(t *testing.T) {
	t.Parallel()

	mock := &vi.MockClient{}
	target, err := Network(context.Background(), mock, "lab-network")
	require.NoError(t, err)
	assert.True(t, target.Distributed)
}

func TestNetwork_FallsBackToStandalone(t *testing.T) {
	t.Parallel()

	mock := &vi.MockClient{
		GetDistributedPortGroupFunc: func(context.Context, string) (*vi.NetworkTarget, error) {
			return nil, errNotFound
		},
	}

	target, err := Network(context.Background(), mock, "lab-network")
	require.NoError(t, err)
	assert.False(t, target.Distributed)
}

func TestNetwork_BothMissingIsResourceNotFound(t *testing.T) {
	t.Parallel()

	mock := &vi.MockClient{
		GetDistributedPortGroupFunc: func(context.Context, string) (*vi.NetworkTarget, error) {
			return nil, errNotFound
		},
		GetPortGroupFunc: func(context.Context, string) (*vi.NetworkTarget, error) {
			return nil, errNotFound
		},
	}

	_, err := Network(context.Background(), mock, "lab-network")
	assert.ErrorIs(t, err, ErrResourceNotFound)
}
