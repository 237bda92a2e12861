package events

import (
	"context"
	"testing"

	"cloud.google.com/go/pubsub/v2"
	pubsubpb "cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"cloud.google.com/go/pubsub/v2/pstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

func TestGooglePubSubPublisher_Publish(t *testing.T) {
	ctx := context.Background()

	srv := pstest.NewServer()
	defer srv.Close()

	conn, err := grpc.NewClient(srv.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	admin, err := pubsub.NewClient(ctx, "shopcart", option.WithGRPCConn(conn))
	require.NoError(t, err)
	defer admin.Close()

	_, err = admin.TopicAdminClient.CreateTopic(ctx, &pubsubpb.Topic{Name: "projects/shopcart/topics/cart-events"})
	require.NoError(t, err)

	publisher, err := NewGooglePubSubPublisher(ctx, "shopcart", "cart-events", discardLogger(), option.WithGRPCConn(conn))
	require.NoError(t, err)

	event := sampleEvent()
	require.NoError(t, publisher.Publish(ctx, event))

	messages := srv.Messages()
	require.Len(t, messages, 1)
	assert.Equal(t, "cart.items_added", messages[0].Attributes["event_type"])
	assert.Equal(t, event.UserID.String(), messages[0].OrderingKey)

	require.NoError(t, publisher.Close())
}

func TestGooglePubSubPublisher_MissingTopic(t *testing.T) {
	ctx := context.Background()

	srv := pstest.NewServer()
	defer srv.Close()

	conn, err := grpc.NewClient(srv.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	_, err = NewGooglePubSubPublisher(ctx, "shopcart", "absent", discardLogger(), option.WithGRPCConn(conn))
	assert.Error(t, err)
}
