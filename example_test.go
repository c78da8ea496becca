package board

import (
	"context"
	"fmt"
)

func ExampleBoard_RecentBroadcasts() {
	ctx := context.Background()
	alice, _ := ParseIdentity("0x00000000000000000000000000000000000000a1")
	b, err := Initialize(ctx, &Config{Persist: NewInMemoryStore()}, alice, 10)
	if err != nil {
		panic(err)
	}
	b.Post(ctx, alice, "hello")
	b.Post(ctx, alice, "world")
	recent, _ := b.RecentBroadcasts(ctx, 5)
	for _, m := range recent {
		fmt.Printf("%d %s\n", m.Index, m.Record.Message)
	}
	// Output:
	// 1 world
	// 0 hello
}

func ExampleBoard_Send() {
	ctx := context.Background()
	alice, _ := ParseIdentity("0x00000000000000000000000000000000000000a1")
	bob, _ := ParseIdentity("0x00000000000000000000000000000000000000b0")
	b, err := Initialize(ctx, &Config{Persist: NewInMemoryStore()}, alice, 10)
	if err != nil {
		panic(err)
	}
	b.Send(ctx, alice, bob, "hi")
	b.Send(ctx, bob, alice, "there")
	thread, _ := b.RecentMessages(ctx, alice, bob, 5)
	for _, m := range thread {
		fmt.Printf("%d %v: %s\n", m.Index, m.Record.Sender, m.Record.Message)
	}
	friends, _ := b.Friends(ctx, bob)
	fmt.Println(friends.Friends)
	// Output:
	// 1 0x00000000000000000000000000000000000000b0: there
	// 0 0x00000000000000000000000000000000000000a1: hi
	// [00000000000000000000000000000000000000a1]
}

func ExampleOffsetIndex() {
	for k := uint32(0); k < 4; k++ {
		i, ok := OffsetIndex(k, 3)
		fmt.Println(k, i, ok)
	}
	// Output:
	// 0 2 true
	// 1 1 true
	// 2 0 true
	// 3 0 false
}
