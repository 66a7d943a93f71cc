package orddict

import "fmt"

func Example_basicUsage() {
	m := NewBTrie[uint32, int]()
	m.Insert(1, 100)
	m.Insert(2, 200)

	v, _ := m.Search(1)
	fmt.Println(v)
	// Output:
	// 100
}

func Example_locate() {
	m := NewBTrie[uint32, string]()
	m.Insert(10, "ten")
	m.Insert(20, "twenty")
	m.Insert(30, "thirty")

	// Locate returns the value for the largest stored key <= the query.
	v, _ := m.Locate(25)
	fmt.Println(v)
	// Output:
	// twenty
}
