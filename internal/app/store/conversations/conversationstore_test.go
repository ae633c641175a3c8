package conversationstore

import (
	"testing"

	"github.com/dalemusser/dintask/internal/app/system/paging"
	"github.com/dalemusser/dintask/internal/domain/models"
	"github.com/dalemusser/dintask/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDirectConversationReused(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tenant := primitive.NewObjectID()
	alice := models.Participant{UserID: primitive.NewObjectID(), Role: models.RoleManager}
	bob := models.Participant{UserID: primitive.NewObjectID(), Role: models.RoleEmployee}

	first, err := store.Create(ctx, models.Conversation{
		TenantID: tenant, Participants: []models.Participant{alice, bob},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Same pair in reverse order lands on the same thread.
	second, err := store.Create(ctx, models.Conversation{
		TenantID: tenant, Participants: []models.Participant{bob, alice},
	})
	if err != nil {
		t.Fatalf("Create again: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("direct chat duplicated: %s vs %s", first.ID.Hex(), second.ID.Hex())
	}

	// A group chat with the same pair is its own thread.
	group, err := store.Create(ctx, models.Conversation{
		TenantID: tenant, IsGroup: true, Name: "Project X",
		Participants: []models.Participant{alice, bob},
	})
	if err != nil {
		t.Fatalf("Create group: %v", err)
	}
	if group.ID == first.ID {
		t.Error("group chat collapsed into direct chat")
	}
}

func TestAddMessageRequiresParticipant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tenant := primitive.NewObjectID()
	alice := models.Participant{UserID: primitive.NewObjectID(), Role: models.RoleManager}
	bob := models.Participant{UserID: primitive.NewObjectID(), Role: models.RoleEmployee}

	conv, err := store.Create(ctx, models.Conversation{
		TenantID: tenant, Participants: []models.Participant{alice, bob},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = store.AddMessage(ctx, models.Message{
		TenantID: tenant, ConversationID: conv.ID,
		Sender: primitive.NewObjectID(), SenderRole: models.RoleSales,
		Body: "let me in",
	})
	if err != ErrNotParticipant {
		t.Errorf("outsider message: got %v, want ErrNotParticipant", err)
	}

	msg, err := store.AddMessage(ctx, models.Message{
		TenantID: tenant, ConversationID: conv.ID,
		Sender: alice.UserID, SenderRole: alice.Role,
		Body: "hello",
	})
	if err != nil {
		t.Fatalf("AddMessage: %v", err)
	}
	if len(msg.ReadBy) != 1 || msg.ReadBy[0] != alice.UserID {
		t.Errorf("sender not marked as having read own message: %v", msg.ReadBy)
	}

	got, _ := store.Get(ctx, tenant, conv.ID)
	if got.LastMessage != "hello" || got.LastMessageAt == nil {
		t.Errorf("preview not refreshed: %q %v", got.LastMessage, got.LastMessageAt)
	}
}

func TestUnreadCounting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tenant := primitive.NewObjectID()
	alice := models.Participant{UserID: primitive.NewObjectID(), Role: models.RoleManager}
	bob := models.Participant{UserID: primitive.NewObjectID(), Role: models.RoleEmployee}

	conv, err := store.Create(ctx, models.Conversation{
		TenantID: tenant, Participants: []models.Participant{alice, bob},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := store.AddMessage(ctx, models.Message{
			TenantID: tenant, ConversationID: conv.ID,
			Sender: alice.UserID, SenderRole: alice.Role, Body: "ping",
		}); err != nil {
			t.Fatalf("AddMessage: %v", err)
		}
	}

	n, err := store.CountUnread(ctx, tenant, conv.ID, bob.UserID)
	if err != nil {
		t.Fatalf("CountUnread: %v", err)
	}
	if n != 3 {
		t.Errorf("unread = %d, want 3", n)
	}

	marked, err := store.MarkMessagesRead(ctx, tenant, conv.ID, bob.UserID)
	if err != nil {
		t.Fatalf("MarkMessagesRead: %v", err)
	}
	if marked != 3 {
		t.Errorf("marked = %d, want 3", marked)
	}

	n, _ = store.CountUnread(ctx, tenant, conv.ID, bob.UserID)
	if n != 0 {
		t.Errorf("unread after mark = %d", n)
	}

	msgs, total, err := store.Messages(ctx, tenant, conv.ID, paging.Params{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if total != 3 || len(msgs) != 2 {
		t.Errorf("page: total=%d len=%d", total, len(msgs))
	}
}
